package pipeline

type Request struct {
	Payload string `json:"payload"`
	Tid     string `json:"tid"`
}
