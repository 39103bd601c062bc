package upstream

import "encoding/json"

// Wire envelope: response.header carries the business result code even when
// the HTTP status is 200; response.body carries the two result lists.
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int `json:"totalCount"`
			PageNo     int `json:"pageNo"`
			NumOfRows  int `json:"numOfRows"`
			Items      struct {
				Item []RawItem `json:"item"`
			} `json:"items"`
			TotalMedia []RawItem `json:"total_media"`
		} `json:"body"`
	} `json:"response"`
}

// decodeEnvelope parses the raw payload. A nil error does not imply business
// success; the caller must still check the header result code.
func decodeEnvelope(data []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
