package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/mindcheck/internal/adapters/http/api"
	"github.com/okian/mindcheck/internal/adapters/repository"
	"github.com/okian/mindcheck/internal/adapters/scorer"
	"github.com/okian/mindcheck/internal/domain/scoring"
	"github.com/okian/mindcheck/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockService implements api.Dependencies and api.StatsProvider.
type mockService struct {
	result     types.ScoredResult
	submitErr  error
	entries    []types.HistoryEntry
	historyErr error
	deleted    int64
	clearErr   error
	csv        []byte
	exportErr  error
}

func (m *mockService) SubmitAndSave(_ context.Context, answers []int, name, note string) (types.ScoredResult, error) {
	if err := scoring.Validate(answers); err != nil {
		return types.ScoredResult{}, err
	}
	return m.result, m.submitErr
}

func (m *mockService) History(_ context.Context) ([]types.HistoryEntry, error) {
	return m.entries, m.historyErr
}

func (m *mockService) ClearHistory(_ context.Context) (int64, error) {
	return m.deleted, m.clearErr
}

func (m *mockService) ExportCSV(_ context.Context) ([]byte, error) {
	return m.csv, m.exportErr
}

func (m *mockService) GetStats() map[string]interface{} {
	return map[string]interface{}{"historyRecords": len(m.entries)}
}

func newTestServer(svc *mockService) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, svc, "*").Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHandleSave(t *testing.T) {
	Convey("Given the save endpoint", t, func() {
		svc := &mockService{result: types.ScoredResult{
			TotalScore: 12,
			Category:   "Needs Mild Attention",
			Advice:     "rest more",
			Color:      "#f59e0b",
		}}
		ts := newTestServer(svc)
		defer ts.Close()
		url := ts.URL + "/api/save"

		Convey("When posting a valid submission", func() {
			resp := postJSON(t, url, `{"answers":[1,2,0,3,1,2,0,3,2,1],"name":"Alice","note":"ok"}`)
			defer resp.Body.Close()

			Convey("Then the scored result is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "success")
				So(body["total_score"], ShouldEqual, 12)
				So(body["category"], ShouldEqual, "Needs Mild Attention")
				So(body["advice"], ShouldEqual, "rest more")
				So(body["color"], ShouldEqual, "#f59e0b")
			})
		})

		Convey("When posting the wrong number of answers", func() {
			resp := postJSON(t, url, `{"answers":[1,2,3]}`)
			defer resp.Body.Close()

			Convey("Then the request is rejected with 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting an out-of-range answer", func() {
			resp := postJSON(t, url, `{"answers":[1,2,0,3,1,2,0,3,2,9]}`)
			defer resp.Body.Close()

			Convey("Then the request is rejected with 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting malformed JSON", func() {
			resp := postJSON(t, url, `{"answers":`)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(url)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a failing scorer", t, func() {
		Convey("When the scorer times out", func() {
			svc := &mockService{submitErr: fmt.Errorf("scoring failed: %w", scorer.ErrTimeout)}
			ts := newTestServer(svc)
			defer ts.Close()

			resp := postJSON(t, ts.URL+"/api/save", `{"answers":[0,0,0,0,0,0,0,0,0,0]}`)
			defer resp.Body.Close()

			Convey("Then the failure maps to a scorer-specific 500", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				var body map[string]any
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["code"], ShouldEqual, "scorer_timeout")
			})
		})

		Convey("When the scorer process fails", func() {
			svc := &mockService{submitErr: fmt.Errorf("scoring failed: %w", scorer.ErrProcessFailure)}
			ts := newTestServer(svc)
			defer ts.Close()

			resp := postJSON(t, ts.URL+"/api/save", `{"answers":[0,0,0,0,0,0,0,0,0,0]}`)
			defer resp.Body.Close()

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			So(body["code"], ShouldEqual, "scoring_error")
		})

		Convey("When the store rejects the write", func() {
			svc := &mockService{submitErr: fmt.Errorf("saving result failed: %w", repository.ErrWriteFailure)}
			ts := newTestServer(svc)
			defer ts.Close()

			resp := postJSON(t, ts.URL+"/api/save", `{"answers":[0,0,0,0,0,0,0,0,0,0]}`)
			defer resp.Body.Close()

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			So(body["code"], ShouldEqual, "store_error")
		})
	})
}

func TestHandleHistory(t *testing.T) {
	Convey("Given stored history", t, func() {
		svc := &mockService{entries: []types.HistoryEntry{
			{Timestamp: "2024-01-02 08:00:00", Name: "Bob", Total: 21, Category: "Consultation Recommended", Note: ""},
			{Timestamp: "2024-01-01 10:00:00", Name: "Alice", Total: 5, Category: "Good", Note: "fine"},
		}}
		ts := newTestServer(svc)
		defer ts.Close()

		Convey("When fetching history", func() {
			resp, err := http.Get(ts.URL + "/api/history")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then entries are returned newest first", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var entries []types.HistoryEntry
				So(json.NewDecoder(resp.Body).Decode(&entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Name, ShouldEqual, "Bob")
				So(entries[1].Name, ShouldEqual, "Alice")
			})
		})
	})

	Convey("Given empty history", t, func() {
		ts := newTestServer(&mockService{})
		defer ts.Close()

		Convey("When fetching history", func() {
			resp, err := http.Get(ts.URL + "/api/history")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then an empty array is returned, not null", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var raw json.RawMessage
				So(json.NewDecoder(resp.Body).Decode(&raw), ShouldBeNil)
				So(strings.TrimSpace(string(raw)), ShouldEqual, "[]")
			})
		})
	})
}

func TestHandleClearHistory(t *testing.T) {
	Convey("Given a store with records", t, func() {
		svc := &mockService{deleted: 5}
		ts := newTestServer(svc)
		defer ts.Close()

		Convey("When clearing via DELETE", func() {
			req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/clear_history", nil)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the deletion count is reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "success")
				So(body["message"], ShouldEqual, "5 records deleted")
			})
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(ts.URL + "/api/clear_history")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleExportCSV(t *testing.T) {
	Convey("Given exportable history", t, func() {
		csv := `"timestamp","name","total","category","note"` + "\n" +
			`"2024-01-01 10:00:00","Jo""e",12,"Needs Mild Attention",""`
		svc := &mockService{csv: []byte(csv)}
		ts := newTestServer(svc)
		defer ts.Close()

		Convey("When downloading the export", func() {
			resp, err := http.Get(ts.URL + "/api/export_csv")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it is served as a CSV attachment", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/csv")
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "mental_check_history.csv")

				body, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, csv)
			})
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the middleware stack", t, func() {
		ts := newTestServer(&mockService{})
		defer ts.Close()

		Convey("When sending a preflight request", func() {
			req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/save", nil)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then CORS headers are answered without hitting the handler", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
				So(resp.Header.Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(resp.Header.Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "DELETE")
			})
		})

		Convey("When sending any request", func() {
			resp, err := http.Get(ts.URL + "/api/history")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a request id is echoed", func() {
				So(resp.Header.Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When supplying a request id", func() {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/history", nil)
			So(err, ShouldBeNil)
			req.Header.Set(api.RequestIDHeader, "caller-id-1")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the caller's id is preserved", func() {
				So(resp.Header.Get(api.RequestIDHeader), ShouldEqual, "caller-id-1")
			})
		})
	})
}
