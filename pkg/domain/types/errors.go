package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify fatal run failures. Every error returned from the deploy
// command carries exactly one of them.
var (
	// ErrTagManifest marks a missing or invalid local build manifest. Nothing
	// has been sent to the platform when it is raised.
	ErrTagManifest = goerr.NewTag("manifest")

	// ErrTagPlatform marks an error reported by the deployment event stream or
	// a failed platform API call.
	ErrTagPlatform = goerr.NewTag("platform")

	// ErrTagCommentAPI marks a failed list/create/edit of the status comment.
	ErrTagCommentAPI = goerr.NewTag("comment_api")

	// ErrTagAlias marks a failed alias assignment after a successful deployment.
	ErrTagAlias = goerr.NewTag("alias")

	// ErrTagConfig marks invalid process configuration.
	ErrTagConfig = goerr.NewTag("config")
)
