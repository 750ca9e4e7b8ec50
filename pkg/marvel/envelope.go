package marvel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the wrapper every gateway response arrives in.
type Envelope struct {
	Code            interface{}    `json:"code"`
	Status          string         `json:"status"`
	Copyright       string         `json:"copyright"`
	AttributionText string         `json:"attributionText"`
	AttributionHTML string         `json:"attributionHTML"`
	ETag            string         `json:"etag"`
	Data            *DataContainer `json:"data"`
}

// DataContainer holds one page of results.
type DataContainer struct {
	Offset  int                      `json:"offset"`
	Limit   int                      `json:"limit"`
	Total   int                      `json:"total"`
	Count   int                      `json:"count"`
	Results []map[string]interface{} `json:"results"`
}

// FirstResult returns the first result, or nil when there is none.
func (e *Envelope) FirstResult() map[string]interface{} {
	if e == nil || e.Data == nil || len(e.Data.Results) == 0 {
		return nil
	}

	return e.Data.Results[0]
}

// DecodeEnvelope parses a response body. Numbers inside results are kept as
// json.Number so ids and counts survive without float rounding. A body whose
// data or results member has an unexpected shape decodes with those members
// left empty.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var raw map[string]interface{}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	err := decoder.Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if raw == nil {
		return nil, ErrMalformedResponse
	}

	envelope := &Envelope{Code: normalize(raw["code"])}
	envelope.Status, _ = raw["status"].(string)
	envelope.Copyright, _ = raw["copyright"].(string)
	envelope.AttributionText, _ = raw["attributionText"].(string)
	envelope.AttributionHTML, _ = raw["attributionHTML"].(string)
	envelope.ETag, _ = raw["etag"].(string)

	data, ok := raw["data"].(map[string]interface{})
	if !ok {
		return envelope, nil
	}

	container := &DataContainer{
		Offset: intField(data, "offset"),
		Limit:  intField(data, "limit"),
		Total:  intField(data, "total"),
		Count:  intField(data, "count"),
	}

	if results, isList := data["results"].([]interface{}); isList {
		for _, result := range results {
			if item, isMap := result.(map[string]interface{}); isMap {
				container.Results = append(container.Results, item)
			}
		}
	}

	envelope.Data = container

	return envelope, nil
}

func intField(data map[string]interface{}, key string) int {
	value, _ := toInt64(data[key])

	return int(value)
}
