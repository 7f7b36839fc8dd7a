package github

// Minimal webhook payload structs. GitHub payloads carry hundreds of
// fields; these model only what the relay extracts. JSON field names
// follow GitHub's webhook payload documentation.

type User struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// CommitAuthor is the git author string on a push commit, not a GitHub
// user object.
type CommitAuthor struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Commit struct {
	ID      string       `json:"id"`
	Message string       `json:"message"`
	URL     string       `json:"url"`
	Author  CommitAuthor `json:"author"`
}

type Pusher struct {
	Name string `json:"name"`
}

type PushPayload struct {
	Ref        string     `json:"ref"`
	Compare    string     `json:"compare"`
	Commits    []Commit   `json:"commits"`
	Pusher     Pusher     `json:"pusher"`
	Repository Repository `json:"repository"`
}

type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Merged  bool   `json:"merged"`
	User    User   `json:"user"`
}

type PullRequestPayload struct {
	Action      string      `json:"action"`
	PullRequest PullRequest `json:"pull_request"`
	Repository  Repository  `json:"repository"`
}

type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	Author  User   `json:"author"`
}

type ReleasePayload struct {
	Action     string     `json:"action"`
	Release    Release    `json:"release"`
	Repository Repository `json:"repository"`
}

type PingPayload struct {
	Zen        string     `json:"zen"`
	Repository Repository `json:"repository"`
}
