package models

// Post is a blog post as rendered by the blog pages.
type Post struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	AuthorID      int64  `json:"author_id"`
	AuthorName    string `json:"author_name"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	IsLiked       bool   `json:"is_liked"`
	CreatedAt     string `json:"created_at"`
}

// Comment is a comment on a blog post or learning material.
type Comment struct {
	ID         int64  `json:"id"`
	PostID     int64  `json:"post_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	LikesCount int    `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
	CreatedAt  string `json:"created_at"`
}

// Discussion is a forum discussion thread.
type Discussion struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	AuthorID     int64  `json:"author_id"`
	AuthorName   string `json:"author_name"`
	LikesCount   int    `json:"likes_count"`
	RepliesCount int    `json:"replies_count"`
	IsLiked      bool   `json:"is_liked"`
	HasSolution  bool   `json:"has_solution"`
	IsClosed     bool   `json:"is_closed"`
	CreatedAt    string `json:"created_at"`
}

// Reply is a reply inside a discussion thread.
type Reply struct {
	ID         int64  `json:"id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	LikesCount int    `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
	IsSolution bool   `json:"is_solution"`
	CreatedAt  string `json:"created_at"`
}

// Event is a community event with registration capacity.
type Event struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartDate        string `json:"start_date"`
	ParticipantCount int    `json:"participant_count"`
	MaxParticipants  int    `json:"max_participants"`
	IsRegistered     bool   `json:"is_registered"`
	IsFeatured       bool   `json:"is_featured"`
}

// SpotsRemaining derives the free capacity, never negative.
func (e Event) SpotsRemaining() int {
	remaining := e.MaxParticipants - e.ParticipantCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RegistrationProgress derives the fill percentage for the capacity bar.
func (e Event) RegistrationProgress() float64 {
	if e.MaxParticipants <= 0 {
		return 0
	}
	return float64(e.ParticipantCount) / float64(e.MaxParticipants) * 100
}

// ProfileStats are the counters shown on a user profile.
type ProfileStats struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TreesPlanted   int `json:"trees_planted"`
	ExpPoints      int `json:"exp_points"`
}

// Profile is another user's public profile as rendered by the profile page.
type Profile struct {
	UserID      int64        `json:"user_id"`
	Username    string       `json:"username"`
	Bio         string       `json:"bio"`
	Stats       ProfileStats `json:"stats"`
	IsFollowing bool         `json:"is_following"`
}

// GroupMembership is one entry of the caller's group memberships list. A user
// holds live-channel membership in at most one group at a time; the
// memberships endpoint is how pages detect an existing one.
type GroupMembership struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
