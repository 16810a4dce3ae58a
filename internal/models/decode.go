package models

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/projassist/internal/errors"
)

// DecodeResponse reads an AssistantResponse from a JSON body.
//
// Bodies that are valid JSON but do not match the typed contract (a string
// "success", a numeric answer) are read field by field with gjson using
// loose truthiness instead of being rejected. A body that is not JSON, or is
// JSON null, returns an error wrapping ErrInvalidResponse.
func DecodeResponse(body []byte) (*AssistantResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", apierrors.ErrInvalidResponse)
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return nil, fmt.Errorf("%w: body is null", apierrors.ErrInvalidResponse)
	}
	if !root.IsObject() {
		return &AssistantResponse{}, nil
	}

	var resp AssistantResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		return &resp, nil
	}

	return looseResponse(root), nil
}

func looseResponse(root gjson.Result) *AssistantResponse {
	resp := &AssistantResponse{
		Success:   root.Get("success").Bool(),
		Timestamp: root.Get("timestamp").Int(),
	}

	if data := root.Get("data"); data.IsObject() {
		resp.Data = &ResponseData{
			Question:  data.Get("question").String(),
			Answer:    data.Get("answer").String(),
			Formatted: data.Get("formatted").Bool(),
			Timestamp: data.Get("timestamp").Int(),
		}
		if projects := data.Get("projects"); projects.IsArray() {
			var ps []ProjectSummary
			if err := json.Unmarshal([]byte(projects.Raw), &ps); err == nil {
				resp.Data.Projects = ps
			}
		}
	}

	if e := root.Get("error"); e.IsObject() {
		resp.Error = &ResponseError{
			Message: e.Get("message").String(),
			Code:    e.Get("code").String(),
		}
	}

	return resp
}
