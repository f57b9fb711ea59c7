package models

type Response struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type Pagination struct {
	Offset int `form:"offset" validate:"min=0"`
	Limit  int `form:"limit" validate:"min=0,max=100"`
}
