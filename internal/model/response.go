package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type BlogResponse struct {
	Blog any `json:"blog"`
}

type BlogListResponse struct {
	Blogs []BlogDTO `json:"blogs"`
}

type CommentListResponse struct {
	Data []CommentDTO `json:"data"`
}
