package domain

// ProductIntakeRequest is a product submission to be screened for
// counterfeit signals. Transient, same lifecycle as ReviewSubmission.
type ProductIntakeRequest struct {
	Title       string `json:"title"       binding:"required"`
	Brand       string `json:"brand"       binding:"required"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url"   binding:"required"`
}

// CounterfeitVerdict is the counterfeit model's decision for one
// intake request. Confidence is always within [0,1]; the gateway
// rejects model output that violates that.
type CounterfeitVerdict struct {
	IsCounterfeit bool    `json:"is_counterfeit"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}
