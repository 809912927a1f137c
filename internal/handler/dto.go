package handler

type AnalyzeResponse struct {
	Record      any    `json:"record"`
	Analysis    any    `json:"analysis,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

type RegenerateRequest struct {
	Feedback string `json:"feedback"`
}
