package integration

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/export"
	"github.com/Hiro-mackay/pdfops/tests/testutil"
	"github.com/Hiro-mackay/pdfops/tests/testutil/fixture"
)

// HistoryTestSuite is the test suite for the operation history endpoints
type HistoryTestSuite struct {
	suite.Suite
	server     *testutil.TestServer
	userToken  string
	adminToken string
}

func (s *HistoryTestSuite) SetupSuite() {
	s.server = testutil.NewTestServer(s.T())
}

func (s *HistoryTestSuite) SetupTest() {
	s.server.Cleanup(s.T())
	s.userToken = s.server.Register(s.T(), "history-user@example.com")
	s.adminToken = s.server.CreateAdmin(s.T(), "history-admin@example.com")
}

func TestHistorySuite(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TEST=true to run.")
	}
	suite.Run(t, new(HistoryTestSuite))
}

// merge runs a merge as token so that one MERGE_PDF record is tracked
func (s *HistoryTestSuite) merge(token string, headers map[string]string) {
	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodPost,
		Path:        "/api/pdf/merge",
		AccessToken: token,
		Headers:     headers,
		Form: &testutil.MultipartForm{
			Files: []testutil.FormFile{
				{Field: "firstPdf", Filename: "a.pdf", Data: fixture.PDF(s.T(), 1)},
				{Field: "secondPdf", Filename: "b.pdf", Data: fixture.PDF(s.T(), 1)},
			},
		},
	}).AssertStatus(http.StatusOK)
}

func (s *HistoryTestSuite) rotate(token string) {
	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodPost,
		Path:        "/api/pdf/rotate",
		AccessToken: token,
		Form: &testutil.MultipartForm{
			Fields: map[string][]string{"pages": {"1"}, "rotations": {"90"}},
			Files:  []testutil.FormFile{{Field: "pdf", Filename: "r.pdf", Data: fixture.PDF(s.T(), 1)}},
		},
	}).AssertStatus(http.StatusOK)
}

func (s *HistoryTestSuite) list(path string, token string) *testutil.HTTPResponse {
	return testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodGet,
		Path:        path,
		AccessToken: token,
	})
}

func (s *HistoryTestSuite) items(resp *testutil.HTTPResponse) []map[string]interface{} {
	raw, ok := resp.GetJSON()["data"].([]interface{})
	s.Require().True(ok, "data is not a list: %s", resp.Body.String())
	out := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]interface{}))
	}
	return out
}

// =============================================================================
// Tracking
// =============================================================================

func (s *HistoryTestSuite) TestOperationIsTracked() {
	s.merge(s.userToken, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"User-Agent":      "integration-test",
		"X-Source-Type":   "Frontend",
	})

	resp := s.list("/api/history", s.adminToken).AssertStatus(http.StatusOK).
		AssertJSONPath("meta.pagination.totalElements", float64(1)).
		AssertJSONPath("meta.pagination.page", float64(0))

	items := s.items(resp)
	s.Require().Len(items, 1)
	entry := items[0]
	s.Equal("MERGE_PDF", entry["operationType"])
	s.Equal("history-user@example.com", entry["userEmail"])
	s.Equal("Test User", entry["userName"])
	s.Equal("203.0.113.7", entry["ipAddress"])
	s.Equal("Japan", entry["country"])
	s.Equal("Tokyo", entry["state"])
	s.Equal("Frontend", entry["sourceType"])
	s.Equal("integration-test", entry["userAgent"])
	s.Equal("Merged files: a.pdf and b.pdf into merged.pdf", entry["requestDetails"])
}

func (s *HistoryTestSuite) TestFailedOperationIsNotTracked() {
	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodPost,
		Path:        "/api/pdf/extract",
		AccessToken: s.userToken,
		Form: &testutil.MultipartForm{
			Fields: map[string][]string{"startPage": {"3"}, "endPage": {"1"}},
			Files:  []testutil.FormFile{{Field: "pdf", Filename: "x.pdf", Data: fixture.PDF(s.T(), 3)}},
		},
	}).AssertStatus(http.StatusBadRequest)

	s.list("/api/history", s.adminToken).AssertStatus(http.StatusOK).
		AssertJSONPath("meta.pagination.totalElements", float64(0))
}

// =============================================================================
// Access control
// =============================================================================

func (s *HistoryTestSuite) TestList_ForbiddenForUsers() {
	s.list("/api/history", s.userToken).
		AssertStatus(http.StatusForbidden).
		AssertJSONError("FORBIDDEN", "")
}

func (s *HistoryTestSuite) TestList_RequiresAuthentication() {
	s.list("/api/history", "").AssertStatus(http.StatusUnauthorized)
}

func (s *HistoryTestSuite) TestMine_ReturnsOnlyOwnEntries() {
	s.merge(s.userToken, nil)
	s.merge(s.adminToken, nil)

	resp := s.list("/api/history/me", s.userToken).AssertStatus(http.StatusOK).
		AssertJSONPath("meta.pagination.totalElements", float64(1))
	items := s.items(resp)
	s.Require().Len(items, 1)
	s.Equal("history-user@example.com", items[0]["userEmail"])
}

// =============================================================================
// Listing and search
// =============================================================================

func (s *HistoryTestSuite) TestList_Pagination() {
	for i := 0; i < 3; i++ {
		s.merge(s.userToken, nil)
	}

	resp := s.list("/api/history?page=1&size=2", s.adminToken).AssertStatus(http.StatusOK).
		AssertJSONPath("meta.pagination.totalElements", float64(3)).
		AssertJSONPath("meta.pagination.totalPages", float64(2)).
		AssertJSONPath("meta.pagination.hasNext", false).
		AssertJSONPath("meta.pagination.hasPrev", true)
	s.Len(s.items(resp), 1)
}

func (s *HistoryTestSuite) TestList_InvalidPageSize() {
	s.list("/api/history?size=0", s.adminToken).AssertStatus(http.StatusBadRequest)
	s.list("/api/history?page=abc", s.adminToken).AssertStatus(http.StatusBadRequest)
}

func (s *HistoryTestSuite) TestSearch_ByOperationType() {
	s.merge(s.userToken, nil)
	s.rotate(s.userToken)

	resp := testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodPost,
		Path:        "/api/history/search",
		AccessToken: s.adminToken,
		Body:        map[string]string{"operationType": "ROTATE_PAGES"},
	}).AssertStatus(http.StatusOK).
		AssertJSONPath("meta.pagination.totalElements", float64(1))

	items := s.items(resp)
	s.Require().Len(items, 1)
	s.Equal("ROTATE_PAGES", items[0]["operationType"])
}

func (s *HistoryTestSuite) TestSearch_InvalidSourceType() {
	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodPost,
		Path:        "/api/history/search",
		AccessToken: s.adminToken,
		Body:        map[string]string{"sourceType": "CLI"},
	}).AssertStatus(http.StatusBadRequest).
		AssertJSONError("VALIDATION_ERROR", "")
}

func (s *HistoryTestSuite) TestFilterOptions() {
	s.merge(s.userToken, nil)
	s.rotate(s.userToken)

	resp := s.list("/api/history/filters", s.adminToken).AssertStatus(http.StatusOK)
	data := resp.GetJSONData()
	types, ok := data["operationTypes"].([]interface{})
	s.Require().True(ok)
	s.Contains(types, "MERGE_PDF")
	s.Contains(types, "ROTATE_PAGES")
	s.Len(types, len(valueobject.KnownOperationTypes()))
	s.Equal([]interface{}{"Japan"}, data["countries"])
}

// =============================================================================
// Export
// =============================================================================

func (s *HistoryTestSuite) TestExport_CSV() {
	s.merge(s.userToken, nil)

	resp := s.list("/api/history/export", s.adminToken).AssertStatus(http.StatusOK)
	s.Equal("application/octet-stream", resp.Header().Get("Content-Type"))
	s.Contains(resp.Header().Get("Content-Disposition"), `filename="pdf_operations_history_`)

	lines := strings.Split(strings.TrimRight(resp.Body.String(), "\n"), "\n")
	s.Require().Len(lines, 2)
	s.Equal(export.CSVHeader, lines[0])
	s.Contains(lines[1], "MERGE_PDF")
}

func (s *HistoryTestSuite) TestExport_ForbiddenForUsers() {
	s.list("/api/history/export", s.userToken).AssertStatus(http.StatusForbidden)
}

// =============================================================================
// Deletion
// =============================================================================

func (s *HistoryTestSuite) TestDelete_OneThenMissing() {
	s.merge(s.userToken, nil)
	items := s.items(s.list("/api/history", s.adminToken))
	s.Require().Len(items, 1)
	path := "/api/history/" + strconv.FormatInt(int64(items[0]["id"].(float64)), 10)

	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodDelete,
		Path:        path,
		AccessToken: s.adminToken,
	}).AssertStatus(http.StatusOK)

	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodDelete,
		Path:        path,
		AccessToken: s.adminToken,
	}).AssertStatus(http.StatusNotFound).
		AssertJSONError("NOT_FOUND", "")
}

func (s *HistoryTestSuite) TestDeleteAll() {
	s.merge(s.userToken, nil)
	s.merge(s.userToken, nil)

	testutil.DoRequest(s.T(), s.server.Echo, testutil.HTTPRequest{
		Method:      http.MethodDelete,
		Path:        "/api/history",
		AccessToken: s.adminToken,
	}).AssertStatus(http.StatusOK).
		AssertJSONPath("data.deleted", float64(2))

	s.list("/api/history", s.adminToken).
		AssertJSONPath("meta.pagination.totalElements", float64(0))
}
