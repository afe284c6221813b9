package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/media"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store/gormstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnv struct {
	router   *gin.Engine
	mediaDir string
}

type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code"`
	Count      *int                   `json:"count"`
	Pagination map[string]interface{} `json:"pagination"`
	Details    map[string]interface{} `json:"details"`
	Data       json.RawMessage        `json:"data"`
}

func setupAPI(t *testing.T, ratePerMinute int) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gormstore.Migrate(db))

	st := gormstore.New(db)
	tokens, err := auth.NewTokenService("user-secret", "chef-secret", "admin-secret", time.Hour)
	require.NoError(t, err)

	dir := t.TempDir()
	storage, err := media.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	router := NewRouter(Deps{
		Tokens:            tokens,
		Accounts:          services.NewAccountService(st.Accounts, gormstore.NewCounterSequence(db), tokens),
		Recipes:           services.NewRecipeService(st.Recipes),
		Reactions:         services.NewReactionService(st.Recipes),
		Comments:          services.NewCommentService(st.Comments, st.Recipes, st.Accounts),
		Taxonomy:          services.NewTaxonomyService(st.Terms),
		Uploader:          media.NewUploader(storage, media.NewProcessor(800, 1<<20)),
		MediaDir:          dir,
		MediaPath:         "/uploads",
		AuthRatePerMinute: ratePerMinute,
	})
	return &apiEnv{router: router, mediaDir: dir}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (e *apiEnv) json(t *testing.T, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return e.do(t, method, path, token, body, "application/json")
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// signup registers an account of the given kind ("users", "chef", "admin")
// and returns its token.
func (e *apiEnv) signup(t *testing.T, kind, name string) string {
	t.Helper()
	creds := map[string]string{"username": name, "email": name + "@example.com", "password": "password123"}
	w, _ := e.json(t, http.MethodPost, "/api/"+kind+"/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := e.json(t, http.MethodPost, "/api/"+kind+"/login", "", map[string]string{"email": creds["email"], "password": creds["password"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 32, 16))))
	return buf.Bytes()
}

func recipeForm(t *testing.T, fields map[string]string, images int) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		fw, err := mw.CreateFormFile("images", fmt.Sprintf("img%d.png", i))
		require.NoError(t, err)
		_, err = fw.Write(pngImage(t))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

type recipeBody struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Images    []string `json:"images"`
	Steps     []string `json:"steps"`
	TagNames  []string `json:"tagNames"`
	Chef      string   `json:"chef"`
	ViewCount int64    `json:"viewCount"`
	LikeCount int      `json:"likeCount"`
}

func (e *apiEnv) createRecipe(t *testing.T, token, title string) recipeBody {
	t.Helper()
	body, ct := recipeForm(t, map[string]string{"title": title, "category": "dinner"}, 1)
	w, env := e.do(t, http.MethodPost, "/api/recipe/create", token, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var r recipeBody
	decodeData(t, env, &r)
	return r
}

func TestHealth(t *testing.T) {
	api := setupAPI(t, 1000)
	w, _ := api.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAccountRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	creds := map[string]string{"username": "alice", "email": "alice@example.com", "password": "password123"}

	w, env := api.json(t, http.MethodPost, "/api/users/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)
	var account struct {
		Number   string `json:"number"`
		IsActive bool   `json:"isActive"`
	}
	decodeData(t, env, &account)
	assert.Equal(t, "USER001", account.Number)
	assert.True(t, account.IsActive)
	assert.NotContains(t, w.Body.String(), "password")

	w, env = api.json(t, http.MethodPost, "/api/users/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", env.Message)

	// the same email may register as a chef
	w, env = api.json(t, http.MethodPost, "/api/chef/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)
	decodeData(t, env, &account)
	assert.Equal(t, "CHEF001", account.Number)

	w, env = api.json(t, http.MethodPost, "/api/users/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", env.Message)

	w, env = api.json(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", env.Message)

	w, _ = api.do(t, http.MethodPost, "/api/users/login", "", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	adminToken := api.signup(t, "admin", "root")
	userToken := api.signup(t, "users", "bob")

	w, env := api.json(t, http.MethodPost, "/api/admin/register", "", map[string]string{"username": "other", "email": "other@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "An admin account already exists.", env.Message)

	w, env = api.json(t, http.MethodPatch, "/api/admin/deactivate-user/USER001", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", env.Message)

	w, env = api.json(t, http.MethodPatch, "/api/admin/deactivate-user/USER999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Message)

	w, env = api.json(t, http.MethodPatch, "/api/admin/deactivate-user/USER001", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "User deactivated successfully", env.Message)

	w, env = api.json(t, http.MethodPatch, "/api/admin/deactivate-user/USER001", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User is already deactivated", env.Message)

	w, env = api.json(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "bob@example.com", "password": "password123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account has been deactivated. Please contact admin.", env.Message)

	w, _ = api.json(t, http.MethodPatch, "/api/admin/reactivate-user/USER001", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.json(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "bob@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	api.signup(t, "chef", "gordon")
	w, env = api.json(t, http.MethodPatch, "/api/admin/deactivate-chef/CHEF001", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chef deactivated successfully", env.Message)
}

func TestTaxonomyRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	adminToken := api.signup(t, "admin", "root")

	w, _ := api.json(t, http.MethodPost, "/api/categoryTag/create-category", "", map[string]string{"name": "dessert"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := api.json(t, http.MethodPost, "/api/categoryTag/create-category", adminToken, map[string]string{"name": "  Dessert "})
	require.Equal(t, http.StatusCreated, w.Code)
	var term struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeData(t, env, &term)
	assert.Equal(t, "dessert", term.Name)

	w, env = api.json(t, http.MethodPost, "/api/categoryTag/create-category", adminToken, map[string]string{"name": "DESSERT"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Category already exists", env.Message)

	w, env = api.json(t, http.MethodPost, "/api/categoryTag/create-tag", adminToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tag name is required", env.Message)

	w, env = api.json(t, http.MethodGet, "/api/categoryTag/allcategory", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	// deletion is public
	w, _ = api.json(t, http.MethodDelete, "/api/categoryTag/delete-category/"+term.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = api.json(t, http.MethodDelete, "/api/categoryTag/delete-category/"+term.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", env.Message)
}

func TestRecipeRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	chefToken := api.signup(t, "chef", "gordon")
	otherChef := api.signup(t, "chef", "jamie")
	userToken := api.signup(t, "users", "alice")

	t.Run("create", func(t *testing.T) {
		body, ct := recipeForm(t, map[string]string{
			"title":       "Pancakes",
			"description": "Fluffy",
			"cookingTime": "20",
			"steps":       `["mix","fry"]`,
			"category":    "breakfast",
			"tags":        "sweet, quick",
		}, 2)
		w, env := api.do(t, http.MethodPost, "/api/recipe/create", chefToken, body, ct)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Recipe created successfully", env.Message)

		var r recipeBody
		decodeData(t, env, &r)
		assert.Equal(t, []string{"mix", "fry"}, r.Steps)
		assert.Equal(t, []string{"sweet", "quick"}, r.TagNames)
		require.Len(t, r.Images, 2)
		assert.True(t, strings.HasPrefix(r.Images[0], "/uploads/recipes/"))

		// stored images are served back
		w, _ = api.do(t, http.MethodGet, r.Images[0], "", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create validation", func(t *testing.T) {
		body, ct := recipeForm(t, map[string]string{"title": "Soup", "category": "dinner"}, 0)
		w, env := api.do(t, http.MethodPost, "/api/recipe/create", chefToken, body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "At least 1 image is required", env.Message)

		body, ct = recipeForm(t, map[string]string{"title": "Soup", "category": "dinner"}, 4)
		w, env = api.do(t, http.MethodPost, "/api/recipe/create", chefToken, body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Max 3 images allowed", env.Message)

		body, ct = recipeForm(t, map[string]string{"title": "Soup", "category": "dinner", "steps": `[mix, fry]`}, 1)
		w, _ = api.do(t, http.MethodPost, "/api/recipe/create", chefToken, body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		body, ct = recipeForm(t, map[string]string{"title": "Soup", "category": "dinner"}, 1)
		w, env = api.do(t, http.MethodPost, "/api/recipe/create", userToken, body, ct)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", env.Message)
	})

	recipe := api.createRecipe(t, chefToken, "Stew")

	t.Run("get counts views", func(t *testing.T) {
		for want := int64(1); want <= 2; want++ {
			w, env := api.json(t, http.MethodGet, "/api/recipe/"+recipe.ID, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var r recipeBody
			decodeData(t, env, &r)
			assert.Equal(t, want, r.ViewCount)
		}

		w, env := api.json(t, http.MethodGet, "/api/recipe/missing", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Recipe not found", env.Message)
	})

	t.Run("edit", func(t *testing.T) {
		form := url.Values{"title": {"Beef stew"}}
		w, _ := api.do(t, http.MethodPut, "/api/recipe/edit/"+recipe.ID, otherChef, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, env := api.do(t, http.MethodPut, "/api/recipe/edit/"+recipe.ID, chefToken, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var r recipeBody
		decodeData(t, env, &r)
		assert.Equal(t, "Beef stew", r.Title)
		assert.Len(t, r.Images, 1)

		// new images are appended without a cap
		body, ct := recipeForm(t, map[string]string{}, 3)
		w, env = api.do(t, http.MethodPut, "/api/recipe/edit/"+recipe.ID, chefToken, body, ct)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decodeData(t, env, &r)
		assert.Len(t, r.Images, 4)
		assert.Equal(t, "Beef stew", r.Title)
	})

	t.Run("delete", func(t *testing.T) {
		w, env := api.json(t, http.MethodDelete, "/api/recipe/delete/"+recipe.ID, otherChef, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, env.Message, "Unauthorized")
		assert.Equal(t, recipe.Chef, env.Details["owner"])

		w, _ = api.json(t, http.MethodDelete, "/api/recipe/delete/"+recipe.ID, chefToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = api.json(t, http.MethodGet, "/api/recipe/"+recipe.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReactionAndRankingRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	chefToken := api.signup(t, "chef", "gordon")
	alice := api.signup(t, "users", "alice")
	bob := api.signup(t, "users", "bob")

	first := api.createRecipe(t, chefToken, "First")
	second := api.createRecipe(t, chefToken, "Second")

	var status struct {
		Liked        bool `json:"liked"`
		Disliked     bool `json:"disliked"`
		LikeCount    int  `json:"likeCount"`
		DislikeCount int  `json:"dislikeCount"`
	}

	w, env := api.json(t, http.MethodPost, "/api/recipe/like/"+second.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe liked successfully", env.Message)
	decodeData(t, env, &status)
	assert.True(t, status.Liked)
	assert.Equal(t, 1, status.LikeCount)

	// chefs react too
	w, _ = api.json(t, http.MethodPost, "/api/recipe/like/"+second.ID, chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.json(t, http.MethodPost, "/api/recipe/dislike/"+second.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe disliked successfully", env.Message)
	decodeData(t, env, &status)
	assert.False(t, status.Liked)
	assert.True(t, status.Disliked)
	assert.Equal(t, 1, status.LikeCount)
	assert.Equal(t, 1, status.DislikeCount)

	w, env = api.json(t, http.MethodPost, "/api/recipe/dislike/"+second.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe undisliked successfully", env.Message)

	w, env = api.json(t, http.MethodGet, "/api/recipe/like-status/"+second.ID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &status)
	assert.False(t, status.Liked)
	assert.Equal(t, 1, status.LikeCount)

	w, _ = api.json(t, http.MethodPost, "/api/recipe/like/missing", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.json(t, http.MethodPost, "/api/recipe/like/"+second.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.json(t, http.MethodGet, "/api/recipe/most-liked?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ranked []recipeBody
	decodeData(t, env, &ranked)
	require.Len(t, ranked, 1)
	assert.Equal(t, second.ID, ranked[0].ID)
	assert.Equal(t, 1, ranked[0].LikeCount)

	api.json(t, http.MethodGet, "/api/recipe/"+first.ID, "", nil)
	w, env = api.json(t, http.MethodGet, "/api/recipe/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var popular []recipeBody
	decodeData(t, env, &popular)
	require.Len(t, popular, 2)
	assert.Equal(t, first.ID, popular[0].ID)
	assert.Equal(t, 2, *env.Count)
}

func TestCommentRoutes(t *testing.T) {
	api := setupAPI(t, 1000)
	adminToken := api.signup(t, "admin", "root")
	chefToken := api.signup(t, "chef", "gordon")
	alice := api.signup(t, "users", "alice")
	bob := api.signup(t, "users", "bob")
	recipe := api.createRecipe(t, chefToken, "Stew")

	type commentBody struct {
		ID           string  `json:"id"`
		Text         string  `json:"text"`
		UserNumber   string  `json:"userNumber"`
		AdminEdited  bool    `json:"adminEdited"`
		LastEditedBy *string `json:"lastEditedBy"`
	}

	w, env := api.json(t, http.MethodPost, "/api/comment/addcomment/"+recipe.ID, alice, map[string]string{"text": "Great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first commentBody
	decodeData(t, env, &first)
	assert.Equal(t, "USER001", first.UserNumber)

	// commenting again rewrites the existing comment
	w, env = api.json(t, http.MethodPost, "/api/comment/addcomment/"+recipe.ID, alice, map[string]string{"text": "Even better"})
	require.Equal(t, http.StatusCreated, w.Code)
	var again commentBody
	decodeData(t, env, &again)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Even better", again.Text)

	w, env = api.json(t, http.MethodPost, "/api/comment/addcomment/"+recipe.ID, bob, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment text is required", env.Message)

	w, _ = api.json(t, http.MethodPost, "/api/comment/addcomment/missing", bob, map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.json(t, http.MethodPost, "/api/comment/addcomment/"+recipe.ID, bob, map[string]string{"text": "Meh"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = api.json(t, http.MethodGet, "/api/comment/allcommentsforrecipe/"+recipe.ID+"?page=1&limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)
	assert.EqualValues(t, 2, env.Pagination["total"])
	assert.EqualValues(t, 2, env.Pagination["pages"])

	w, env = api.json(t, http.MethodPut, "/api/comment/editcomment/"+first.ID, bob, map[string]string{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.json(t, http.MethodPut, "/api/comment/editcomment/"+first.ID, adminToken, map[string]string{"text": "moderated"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edited commentBody
	decodeData(t, env, &edited)
	assert.True(t, edited.AdminEdited)
	require.NotNil(t, edited.LastEditedBy)
	assert.Equal(t, "Admin", *edited.LastEditedBy)

	w, env = api.json(t, http.MethodPut, "/api/comment/editcomment/"+first.ID, alice, map[string]string{"text": "mine again"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &edited)
	assert.False(t, edited.AdminEdited)
	assert.Nil(t, edited.LastEditedBy)

	w, env = api.json(t, http.MethodGet, "/api/comment/user/recipe/"+recipe.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine commentBody
	decodeData(t, env, &mine)
	assert.Equal(t, "mine again", mine.Text)

	w, _ = api.json(t, http.MethodDelete, "/api/comment/deletecomment/"+first.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.json(t, http.MethodDelete, "/api/comment/deletecomment/"+first.ID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.json(t, http.MethodGet, "/api/comment/user/recipe/"+recipe.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)
}

func TestAuthRateLimit(t *testing.T) {
	api := setupAPI(t, 2)
	creds := map[string]string{"email": "nobody@example.com", "password": "password123"}

	for i := 0; i < 2; i++ {
		w, _ := api.json(t, http.MethodPost, "/api/users/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := api.json(t, http.MethodPost, "/api/users/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)

	// reads are not limited
	w, _ = api.json(t, http.MethodGet, "/api/recipe/popular", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv := New(Options{Host: "127.0.0.1", Port: 0}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
