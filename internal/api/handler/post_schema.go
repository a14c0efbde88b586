package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createPostRequest struct {
	Title      string   `json:"title"      validate:"required,max=255"`
	Content    string   `json:"content"    validate:"required"`
	Categories []string `json:"categories" validate:"omitempty,dive,required"`
	Tags       []string `json:"tags"       validate:"omitempty,dive,required"`
}

type updatePostRequest struct {
	Title      *string   `json:"title"      validate:"omitempty,max=255"`
	Content    *string   `json:"content"    validate:"omitempty,min=1"`
	Categories *[]string `json:"categories" validate:"omitempty,dive,required"`
	Tags       *[]string `json:"tags"       validate:"omitempty,dive,required"`
}

// postResponse is the transport view of a post. The author reference
// is read-only; it is set at creation and never accepted as input.
type postResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listPostsResponse struct {
	Data       []postResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
