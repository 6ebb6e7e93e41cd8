package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": email, "password": "longenough"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": email, "password": "longenough"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestAuthFlow(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	email := uniqueEmail("auth")
	token := registerAndLogin(t, router, email)
	require.NotEmpty(t, token)

	// Duplicate registration conflicts.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"email": email, "password": "longenough"})
	require.Equal(t, http.StatusConflict, resp.Code)

	// Wrong password is rejected.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": email, "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSearchRequiresToken(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp := doJSON(t, router, http.MethodPost, "/api/v1/search", "",
		map[string]string{"query": "anything"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestIngestAndSearchFlow(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	ownerToken := registerAndLogin(t, router, uniqueEmail("owner"))

	resp := doJSON(t, router, http.MethodPost, "/api/v1/repositories", ownerToken,
		map[string]string{"name": "demo", "primary_language": "go"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var repoOut struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &repoOut))
	repoID := repoOut.Data.ID
	require.NotEmpty(t, repoID)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/ingest", ownerToken, map[string]interface{}{
		"repository_id": repoID,
		"documents": []map[string]string{
			{"file_path": "main.go", "content": "package main\n\nfunc main() {}\n", "content_type": "code", "language": "go"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, router, http.MethodPost, "/api/v1/search", ownerToken, map[string]interface{}{
		"query":         "main function",
		"repository_id": repoID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// A stranger cannot search the repository or ingest into it.
	strangerToken := registerAndLogin(t, router, uniqueEmail("stranger"))
	resp = doJSON(t, router, http.MethodPost, "/api/v1/search", strangerToken, map[string]interface{}{
		"query":         "main function",
		"repository_id": repoID,
	})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/ingest", strangerToken, map[string]interface{}{
		"repository_id": repoID,
		"documents": []map[string]string{
			{"file_path": "x.go", "content": "package x"},
		},
	})
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestShareFlow(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	ownerToken := registerAndLogin(t, router, uniqueEmail("share-owner"))

	resp := doJSON(t, router, http.MethodPost, "/api/v1/repositories", ownerToken,
		map[string]string{"name": "shared"})
	require.Equal(t, http.StatusOK, resp.Code)
	var repoOut struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &repoOut))

	granteeEmail := uniqueEmail("grantee")
	granteeToken := registerAndLogin(t, router, granteeEmail)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/repositories", granteeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var meOut struct {
		Data struct {
			Repositories []struct {
				OwnerID string `json:"owner_id"`
			} `json:"repositories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &meOut))

	// Non-admin cannot share someone else's repository.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/repositories/"+repoOut.Data.ID+"/share", granteeToken,
		map[string]interface{}{"grantee_user_id": "someone", "access_type": "read"})
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRepositoryDelete(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	ownerToken := registerAndLogin(t, router, uniqueEmail("del-owner"))

	resp := doJSON(t, router, http.MethodPost, "/api/v1/repositories", ownerToken,
		map[string]string{"name": "doomed", "primary_language": "go"})
	require.Equal(t, http.StatusOK, resp.Code)
	var repoOut struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &repoOut))
	repoID := repoOut.Data.ID

	resp = doJSON(t, router, http.MethodPost, "/api/v1/ingest", ownerToken, map[string]interface{}{
		"repository_id": repoID,
		"documents": []map[string]string{
			{"file_path": "a.go", "content": "package a", "content_type": "code"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Only the owner may delete.
	strangerToken := registerAndLogin(t, router, uniqueEmail("del-stranger"))
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/repositories/"+repoID, strangerToken, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/repositories/"+repoID, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, router, http.MethodGet, "/api/v1/repositories/"+repoID, ownerToken, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestQueryAnalyzeEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	token := registerAndLogin(t, router, uniqueEmail("analyze"))
	resp := doJSON(t, router, http.MethodPost, "/api/v1/query/analyze", token, map[string]interface{}{
		"query": "How to implement JWT authentication in Node.js with examples",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Data struct {
			QueryType           string  `json:"query_type"`
			ProgrammingLanguage string  `json:"programming_language"`
			Confidence          float64 `json:"confidence"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "example_request", out.Data.QueryType)
	require.Equal(t, "javascript", out.Data.ProgrammingLanguage)
	require.GreaterOrEqual(t, out.Data.Confidence, 0.7)
}
