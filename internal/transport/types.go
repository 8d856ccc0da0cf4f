package transport

import domain "deskprefs/internal/domain/preferences"

// JSResp is the envelope returned to the frontend by every binding.
type JSResp struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful response.
func OK(data any) JSResp {
	return JSResp{Success: true, Data: data}
}

// Fail reports err to the frontend.
func Fail(err error) JSResp {
	if err == nil {
		return JSResp{}
	}
	return JSResp{Success: false, Msg: err.Error()}
}

// Dialog interface for system dialogs
type DialogHandler interface {
	SelectExecutable(title string) (string, error)
	OpenFile(filePath string) error
}

// DecoderInput is a custom decoder as sent by the frontend. Omitted enable
// and auto flags default to true.
type DecoderInput struct {
	Name       string   `json:"name"`
	Enable     *bool    `json:"enable,omitempty"`
	Auto       *bool    `json:"auto,omitempty"`
	EncodePath string   `json:"encodePath"`
	EncodeArgs []string `json:"encodeArgs"`
	DecodePath string   `json:"decodePath"`
	DecodeArgs []string `json:"decodeArgs"`
}

// Config converts the payload into a decoder configuration.
func (in DecoderInput) Config() domain.DecoderConfig {
	return domain.DecoderConfig{
		Name:       in.Name,
		Enable:     in.Enable == nil || *in.Enable,
		Auto:       in.Auto == nil || *in.Auto,
		EncodePath: in.EncodePath,
		EncodeArgs: in.EncodeArgs,
		DecodePath: in.DecodePath,
		DecodeArgs: in.DecodeArgs,
	}
}
