package docsystem

// BulkItemResult is the per-document outcome of one bulk operation item.
// Every requested id produces exactly one entry; a bulk response is never
// partially silent.
type BulkItemResult struct {
	DocumentID   string `json:"document_id"`
	Title        string `json:"title,omitempty"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// BulkResult aggregates per-item outcomes so callers can distinguish fully
// successful, partially failed, and fully failed batches.
type BulkResult struct {
	TotalRequested int              `json:"total_requested"`
	Succeeded      int              `json:"succeeded"`
	Failed         int              `json:"failed"`
	Results        []BulkItemResult `json:"results"`
}

// AddSuccess records a successful item.
func (r *BulkResult) AddSuccess(documentID, title string) {
	r.Succeeded++
	r.Results = append(r.Results, BulkItemResult{
		DocumentID: documentID,
		Title:      title,
		Success:    true,
	})
}

// AddFailure records a failed item with its stable reason code.
func (r *BulkResult) AddFailure(documentID, title, code, message string) {
	r.Failed++
	r.Results = append(r.Results, BulkItemResult{
		DocumentID:   documentID,
		Title:        title,
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

// FullySuccessful reports whether every requested item succeeded.
func (r *BulkResult) FullySuccessful() bool {
	return r.Failed == 0 && r.Succeeded == r.TotalRequested
}
