package users

import "github.com/stockroom/stockroom/internal/listing"

// Resource is the listing name of users.
const Resource listing.Resource = "users"

const (
	postsCount    = "COALESCE(post_stats.posts_count, 0)"
	commentsCount = "COALESCE(comment_stats.comments_count, 0)"
)

// Definition declares the sorts and filters accepted by the user list.
func Definition() listing.Definition {
	return listing.Definition{
		Select: "users.id AS id, users.name AS name, users.email AS email, " +
			"users.email_verified_at AS email_verified_at, " +
			postsCount + " AS posts_count, " + commentsCount + " AS comments_count, " +
			"users.created_at AS created_at, users.updated_at AS updated_at",
		From: "users" +
			" LEFT JOIN (SELECT user_id, COUNT(*) AS posts_count FROM posts GROUP BY user_id) post_stats ON post_stats.user_id = users.id" +
			" LEFT JOIN (SELECT user_id, COUNT(*) AS comments_count FROM comments GROUP BY user_id) comment_stats ON comment_stats.user_id = users.id",
		PrimaryKey: listing.SortOn("id", "users.id"),
		Filters: []listing.FilterSpec{
			listing.ExactInt("id", "users.id"),
			listing.Partial("name", "users.name"),
			listing.Partial("email", "users.email"),
			listing.Scoped("email_verified_at", listing.NullState{
				Column:  "users.email_verified_at",
				Present: "verified",
				Absent:  "unverified",
			}),
			listing.Scoped("created_on", listing.DateOn{Column: "users.created_at"}),
			listing.Scoped("posts_count", listing.AggregateEquals{Expr: postsCount}),
			listing.Scoped("comments_count", listing.AggregateEquals{Expr: commentsCount}),
		},
		Sorts: []listing.SortSpec{
			listing.SortOn("name", "users.name"),
			listing.SortOn("email", "users.email"),
			listing.SortOn("email_verified_at", "users.email_verified_at"),
			listing.SortOn("created_at", "users.created_at"),
			listing.SortOn("posts_count", postsCount),
			listing.SortOn("comments_count", commentsCount),
		},
	}
}
