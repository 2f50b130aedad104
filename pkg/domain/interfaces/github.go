package interfaces

import (
	"context"

	"github.com/google/go-github/v75/github"
)

// CommentClient defines the pull request comment operations used for the status comment
type CommentClient interface {
	// ListComments returns all comments of a pull request or issue in listing order
	ListComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error)

	// CreateComment creates a comment on a pull request or issue
	CreateComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error)

	// EditComment replaces the body of an existing comment
	EditComment(ctx context.Context, owner, repo string, commentID int64, body string) (*github.IssueComment, error)
}
