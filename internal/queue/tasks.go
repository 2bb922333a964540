package queue

const (
	TypeEmbeddingGenerate   = "requisition:embed"
	TypeDescriptionGenerate = "requisition:describe"
)

type EmbeddingGeneratePayload struct {
	RequisitionID string `json:"requisition_id"`
	CompanyID     string `json:"company_id"`
}

type DescriptionGeneratePayload struct {
	RequisitionID string `json:"requisition_id"`
	CompanyID     string `json:"company_id"`
	RequestedBy   string `json:"requested_by"`
}
