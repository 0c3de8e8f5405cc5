package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestFromValues(t *testing.T) {
	values, err := url.ParseQuery("sort=-title&filter[title]=bolt&filter[warehouses][]=1&filter[warehouses][]=3&filter[]=x&filterx=y&page=2")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	req := RequestFromValues(values)
	assert.Equal(t, "-title", req.Sort)
	assert.Equal(t, map[string]string{"title": "bolt", "warehouses": "1,3"}, req.Filters)
	assert.Equal(t, "-title", req.SortOr("id"))
	assert.Equal(t, "id", QueryRequest{}.SortOr("id"))
}

func TestRequestFromValuesRepeatedScalarFilter(t *testing.T) {
	values, err := url.ParseQuery("filter[title]=anvil&filter[title]=bolt&filter[color]=red")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	req := RequestFromValues(values)
	assert.Equal(t, map[string]string{"title": "bolt", "color": "red"}, req.Filters)
}

func TestRequestFromValuesListFormWins(t *testing.T) {
	values, err := url.ParseQuery("filter[warehouses]=9&filter[warehouses][]=1&filter[warehouses][]=2")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "1,2", RequestFromValues(values).Filters["warehouses"])
	}
}

func TestPageFromValues(t *testing.T) {
	for raw, want := range map[string]int{"": 1, "3": 3, "0": 1, "-4": 1, "two": 1, " 7 ": 7} {
		assert.Equal(t, want, PageFromValues(url.Values{"page": {raw}}), "page=%q", raw)
	}
}
