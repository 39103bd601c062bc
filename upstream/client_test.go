package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/safelaw/fault"
)

const successEnvelope = `{
	"response": {
		"header": {"resultCode": "00", "resultMsg": "NORMAL SERVICE"},
		"body": {
			"totalCount": 2,
			"pageNo": 1,
			"numOfRows": 10,
			"items": {"item": [
				{"documentId": "doc-1", "title": "산업안전보건법 제5조", "category": "1", "bodyText": "사업주의 의무"}
			]},
			"total_media": [
				{"documentId": "med-1", "title": "사다리 안전 영상", "category": "6", "bodyText": "교육 자료", "sourcePath": "https://media.example.com/v/1"}
			]
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:    srv.URL,
		ServiceKey: "test-key",
		HTTPClient: srv.Client(),
	})
}

func TestClient_Search_Success(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(successEnvelope))
	})

	result, err := client.Search(context.Background(), Params{
		SearchValue: "사다리",
		Category:    0,
		PageNo:      1,
		NumOfRows:   10,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if result.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", result.TotalCount)
	}
	if len(result.Primary) != 1 || result.Primary[0].DocumentID != "doc-1" {
		t.Errorf("Primary = %+v, want one doc-1 item", result.Primary)
	}
	if len(result.Media) != 1 || result.Media[0].DocumentID != "med-1" {
		t.Errorf("Media = %+v, want one med-1 item", result.Media)
	}

	for _, param := range []string{"serviceKey=test-key", "dataType=JSON", "pageNo=1", "numOfRows=10"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("query %q missing %q", gotQuery, param)
		}
	}
}

func TestClient_Search_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"header": {"resultCode": "03", "resultMsg": "NODATA"}, "body": {}}}`))
	})

	result, err := client.Search(context.Background(), Params{SearchValue: "없는검색어", PageNo: 2, NumOfRows: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.TotalCount != 0 || len(result.Primary) != 0 || len(result.Media) != 0 {
		t.Errorf("no-data result = %+v, want empty", result)
	}
	if result.PageNo != 2 || result.NumOfRows != 5 {
		t.Errorf("no-data result should echo request paging, got %+v", result)
	}
}

func TestClient_Search_BusinessError(t *testing.T) {
	tests := []struct {
		code string
		want fault.Kind
	}{
		{"22", fault.KindRateLimited},
		{"30", fault.KindUnauthorized},
		{"31", fault.KindForbidden},
		{"77", fault.KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"response": {"header": {"resultCode": "` + tt.code + `", "resultMsg": "ERROR"}, "body": {}}}`))
			})

			_, err := client.Search(context.Background(), Params{SearchValue: "x"})
			if err == nil {
				t.Fatal("Search() error = nil, want classified error")
			}
			if got := fault.KindOf(err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Search_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-json", "<html>gateway error</html>"},
		{"missing header", `{"response": {"body": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Search(context.Background(), Params{SearchValue: "x"})
			if got := fault.KindOf(err); got != fault.KindMalformedUpstream {
				t.Errorf("KindOf = %v, want malformed_upstream", got)
			}
		})
	}
}

func TestClient_Search_HTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   fault.Kind
	}{
		{http.StatusBadGateway, fault.KindUpstreamUnavailable},
		{http.StatusServiceUnavailable, fault.KindUpstreamUnavailable},
		{http.StatusGatewayTimeout, fault.KindUpstreamUnavailable},
		{http.StatusUnauthorized, fault.KindUnauthorized},
		{http.StatusForbidden, fault.KindForbidden},
		{http.StatusTooManyRequests, fault.KindRateLimited},
		{http.StatusNotFound, fault.KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Search(context.Background(), Params{SearchValue: "x"})
			if got := fault.KindOf(err); got != tt.want {
				t.Errorf("status %d: KindOf = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestClient_Search_TransportFailureHidesServiceKey(t *testing.T) {
	client := NewClient(ClientConfig{
		BaseURL:    "http://127.0.0.1:1", // nothing listens here
		ServiceKey: "super-secret-key",
	})

	_, err := client.Search(context.Background(), Params{SearchValue: "x"})
	if err == nil {
		t.Fatal("Search() error = nil, want transport failure")
	}
	if got := fault.KindOf(err); got != fault.KindUpstreamUnavailable {
		t.Errorf("KindOf = %v, want upstream_unavailable", got)
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Error("transport error leaked the service key")
	}
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, Params{SearchValue: "x"})
	if err == nil {
		t.Fatal("Search() error = nil, want failure after cancellation")
	}
	if got := fault.KindOf(err); got != fault.KindUpstreamUnavailable {
		t.Errorf("KindOf = %v, want upstream_unavailable", got)
	}
}
