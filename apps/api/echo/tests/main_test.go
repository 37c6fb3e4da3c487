package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	. "github.com/Emmanuel10701/maryimmaculate/apps/api/echo"
	"github.com/Emmanuel10701/maryimmaculate/core"
	"github.com/Emmanuel10701/maryimmaculate/core/document"
	"github.com/Emmanuel10701/maryimmaculate/storage/database/inmem"
)

var (
	app     Server
	docRepo document.Repository
)

// setup rebuilds the DB, repos and server so every test starts clean.
func setup(t *testing.T) {
	core.Conf.Set("testMode", true)
	core.Conf.Set("debug", false)

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	docRepo = inmemdb.NewDocumentRepository(db)

	app = NewServer(
		&Options{
			DisableReqLogs: true,
			DocSvc:         document.NewService(docRepo),
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func newMultipartRequest(t *testing.T, path string, payload *document.SubmissionPayload) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	contentType, err := payload.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("newMultipartRequest(): %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	return req, rec
}

// createSchoolDocuments seeds a record with two stored files and a day
// fee distribution.
func createSchoolDocuments(t *testing.T, name string) document.SchoolDocuments {
	now := time.Now().UTC()
	doc, err := docRepo.CreateSchoolDocuments(document.SchoolDocuments{
		ID:         "school-" + name,
		SchoolName: name,
		Files: map[string]document.StoredFile{
			document.FieldCurriculum: {
				Name:      "curriculum.pdf",
				SizeBytes: 200_000,
				URL:       "/media/schools/school-" + name + "/curriculumPDF/curriculum.pdf",
				Metadata: document.Metadata{
					Year: null.StringFrom("2024"),
					Term: null.StringFrom("Term 2"),
				},
			},
			document.FieldForm3Results: {
				Name:      "form3.pdf",
				SizeBytes: 150_000,
				URL:       "/media/schools/school-" + name + "/form3ResultsPdf/form3.pdf",
			},
		},
		Distributions: map[string][]document.FeeCategory{
			"feesDayDistributionJson": {
				{ID: "tuition", Name: "Tuition", Amount: 2_350_000, Order: 0},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createSchoolDocuments(): %v", err)
	}
	return doc
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
