package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer   abc", "abc", true},
		{"Basic dXNlcg==", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	svc := newHMACService(t)
	token, err := svc.Issue("USER12345", []string{RoleCustomer}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	interceptor := UnaryServerInterceptor(svc, func(method string) bool {
		return strings.HasPrefix(method, "/grpc.health.v1.Health/")
	})

	var seen *Claims
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/mortgageflex.adjustment.v1.AdjustmentService/CheckEligibility"}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	if _, err := interceptor(ctx, nil, info, handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == nil || seen.UserID != "USER12345" {
		t.Fatalf("claims not attached: %+v", seen)
	}

	_, err = interceptor(context.Background(), nil, info, handler)
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("missing metadata: code = %v", status.Code(err))
	}

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))
	_, err = interceptor(bad, nil, info, handler)
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("bad token: code = %v", status.Code(err))
	}

	seen = nil
	health := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	if _, err := interceptor(context.Background(), nil, health, handler); err != nil {
		t.Errorf("skipped method should pass, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	svc := newHMACService(t)
	token, err := svc.Issue("USER12345", []string{RoleCustomer}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	protected := Middleware(svc, func(r *http.Request) bool { return r.URL.Path == "/healthz" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Authorize(r.Context(), r.URL.Query().Get("user")); err != nil {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid token", "/api?user=USER12345", "Bearer " + token, http.StatusNoContent},
		{"other user", "/api?user=USER54321", "Bearer " + token, http.StatusForbidden},
		{"missing token", "/api?user=USER12345", "", http.StatusUnauthorized},
		{"invalid token", "/api?user=USER12345", "Bearer junk", http.StatusUnauthorized},
		{"skipped path", "/healthz", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestAuthorize_WithoutClaims(t *testing.T) {
	if err := Authorize(context.Background(), "USER12345"); err != nil {
		t.Errorf("expected nil without claims, got %v", err)
	}
	ctx := ContextWithClaims(context.Background(), &Claims{UserID: "USER12345"})
	if err := Authorize(ctx, "USER54321"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
