package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsTokenAndQuery(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":7,"name":"Soup","cooking_time":20,"author":{"id":3,"username":"chef"}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL+"/api/", "tok")
	page, err := c.ListRecipes(context.Background(), RecipeFilter{
		Tags:      []string{"breakfast", "lunch"},
		Author:    3,
		Favorited: true,
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("ListRecipes() error = %v", err)
	}

	if gotAuth != "Token tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/recipes" {
		t.Errorf("path = %q", gotPath)
	}
	if want := "author=3&is_favorited=1&limit=2&tags=breakfast&tags=lunch"; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if page.Count != 1 || len(page.Results) != 1 || page.Results[0].Author.Username != "chef" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/auth/token/login" || body["email"] != "cook@example.com" {
			http.Error(w, `{"detail":"bad request"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"auth_token":"abc"}`))
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, "")
	token, err := c.Login(context.Background(), "cook@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "abc" || c.Token != "abc" {
		t.Errorf("token = %q, client token = %q", token, c.Token)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"errors", `{"errors":"recipe is already in favorites"}`, "recipe is already in favorites"},
		{"fields", `{"name":["This field is required."],"cooking_time":["Ensure this value is greater than or equal to 1."]}`,
			"cooking_time: Ensure this value is greater than or equal to 1.; name: This field is required."},
		{"plain", `boom`, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: 400, Body: []byte(tt.body)}
			if got := err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, "")
	_, err := c.GetRecipe(context.Background(), 99)
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("GetRecipe() error = %v, want 404", err)
	}
	if IsStatus(err, http.StatusBadRequest) {
		t.Error("IsStatus matched the wrong code")
	}
}

func TestDownloadShoppingCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Milk - 200ml\nSalt - 8g"))
	}))
	defer srv.Close()

	got, err := NewClientWithURL(srv.URL, "t").DownloadShoppingCart(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "Milk - 200ml\nSalt - 8g" {
		t.Errorf("DownloadShoppingCart() = %q", got)
	}
}
