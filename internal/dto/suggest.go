package dto

// SuggestRequest is the JSON body for POST /api/rag/suggest.
type SuggestRequest struct {
	Question string `json:"question" binding:"required,min=1,max=1000"`
}

// SuggestResponse carries an auto-suggested answer for a question.
type SuggestResponse struct {
	Question        string   `json:"question"`
	SuggestedAnswer string   `json:"suggested_answer"`
	Confidence      float64  `json:"confidence"`
	Sources         []string `json:"sources"`
}
