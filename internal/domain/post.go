package domain

import "time"

// VoteType is the direction of a vote on a post.
type VoteType string

const (
	VoteUp   VoteType = "Upvote"
	VoteDown VoteType = "Downvote"
)

// AnonymousAuthor is shown for posts whose author has no username.
const AnonymousAuthor = "anonymous"

// Post is one entry of the recent posts feed.
type Post struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	PostType       string    `json:"postType"`
	DateCreated    time.Time `json:"dateCreated"`
	MemberID       int       `json:"memberId"`
	MemberPostedBy Member    `json:"memberPostedBy"`
	Comments       []Comment `json:"comments"`
	Votes          []Vote    `json:"votes"`
}

// Member links a forum membership to its user account.
type Member struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	User   Author `json:"user"`
}

// Author is the public profile embedded in a post.
type Author struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Avatar    *string `json:"avatar,omitempty"`
}

type Comment struct {
	ID              int    `json:"id"`
	MemberID        int    `json:"memberId"`
	PostID          int    `json:"postId"`
	ParentCommentID *int   `json:"parentCommentId"`
	Text            string `json:"text"`
}

type Vote struct {
	ID       int      `json:"id"`
	MemberID int      `json:"memberId"`
	PostID   int      `json:"postId"`
	VoteType VoteType `json:"voteType"`
}

// Upvotes counts the post's up votes.
func (p Post) Upvotes() int {
	return p.countVotes(VoteUp)
}

// Downvotes counts the post's down votes.
func (p Post) Downvotes() int {
	return p.countVotes(VoteDown)
}

func (p Post) countVotes(t VoteType) int {
	n := 0
	for _, v := range p.Votes {
		if v.VoteType == t {
			n++
		}
	}
	return n
}

func (p Post) CommentCount() int {
	return len(p.Comments)
}

// AuthorName returns the author's username or AnonymousAuthor.
func (p Post) AuthorName() string {
	if p.MemberPostedBy.User.Username == "" {
		return AnonymousAuthor
	}
	return p.MemberPostedBy.User.Username
}
