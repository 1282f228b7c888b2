package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"content-planner/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(mockClient, "test-bucket", testFolders, zap.NewNop(), db)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	ch := make(chan minio.ObjectInfo)
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "checked", body["status"])
	assert.Len(t, body["missing"], 2)
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	ch := make(chan minio.ObjectInfo)
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestHandleStructureCheck_Error(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleServerCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t)

	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"Field", "Type"}))
	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"Field", "Type"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["matched"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	// Fail fast on both checks; the combined report still answers 200
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "structure")
	assert.Contains(t, body, "server")
}
