package response

// ProgressResponse is the DTO for the run progress endpoint.
type ProgressResponse struct {
	Total   int  `json:"total"`
	Done    int  `json:"done"`
	OK      int  `json:"ok"`
	Failed  int  `json:"failed"`
	Running bool `json:"running"`
	Halted  bool `json:"halted"`
}
