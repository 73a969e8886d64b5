package domain

// CreateChatRequest creates a chat. The chat type follows from the name,
// the member count and Public.
type CreateChatRequest struct {
	Name    *string `json:"name"`
	Members []int64 `json:"members" binding:"required"`
	Public  bool    `json:"public"`
}

// UpdateChatRequest replaces name and members; the type is kept.
type UpdateChatRequest struct {
	Name    *string `json:"name"`
	Members []int64 `json:"members" binding:"required"`
}

type SendMessageRequest struct {
	Content string   `json:"content"`
	Files   []string `json:"files"`
}

// ListMessagesQuery pages backwards from LastID (exclusive).
type ListMessagesQuery struct {
	LastID *int64 `form:"last_id"`
	Limit  int    `form:"limit"`
}

type UploadResponse struct {
	Files []string `json:"files"`
}
