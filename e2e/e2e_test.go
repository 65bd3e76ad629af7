//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"giftcircle/internal/auth"
	"giftcircle/internal/config"
	"giftcircle/internal/db"
	familydomain "giftcircle/internal/domain/family"
	giftgroupdomain "giftcircle/internal/domain/giftgroup"
	identitydomain "giftcircle/internal/domain/identity"
	profiledomain "giftcircle/internal/domain/profile"
	wishlistdomain "giftcircle/internal/domain/wishlist"
	"giftcircle/internal/notify"
	familyrepo "giftcircle/internal/repository/postgres/family"
	giftgrouprepo "giftcircle/internal/repository/postgres/giftgroup"
	identityrepo "giftcircle/internal/repository/postgres/identity"
	profilerepo "giftcircle/internal/repository/postgres/profile"
	wishlistrepo "giftcircle/internal/repository/postgres/wishlist"
	"giftcircle/internal/transport/httpserver"
	"giftcircle/internal/transport/httpserver/handler"
	authmw "giftcircle/internal/transport/httpserver/middleware"
	"giftcircle/pkg/logger"
	"giftcircle/pkg/mailer"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewDiscard()

	cfg := config.Config{
		DB:   config.DBConfig{DSN: dsn},
		Env:  "test",
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		Rate: config.RateConfig{RequestLimit: 1000, WindowLength: time.Minute},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	notifier := notify.New(mailer.NewLogOnly(log), "http://localhost:3000", log)
	tokens := auth.NewTokens("e2e-secret", time.Hour)

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), notifier)
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn), notifier)
	profileService := profiledomain.NewService(profilerepo.NewPostgres(dbConn))
	wishlistService := wishlistdomain.NewService(wishlistrepo.NewPostgres(dbConn))
	groupService := giftgroupdomain.NewService(giftgrouprepo.NewPostgres(dbConn), familyService)

	handlers := handler.New(identityService, familyService, profileService, wishlistService, groupService, tokens, log)
	authMiddleware := authmw.NewAuth(tokens, identityService)

	router := httpserver.NewRouter(cfg, handlers, authMiddleware)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE messages, gift_group_members, gift_groups, wishlist_items, profiles, family_members, families, verification_tokens, users RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Verified bool    `json:"verified"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type familyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
	CreatedBy  string `json:"created_by"`
}

type memberResponse struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type itemResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Price     *string    `json:"price"`
	Priority  string     `json:"priority"`
	ClaimedBy *string    `json:"claimed_by"`
	ClaimedAt *time.Time `json:"claimed_at"`
	Purchased bool       `json:"purchased"`
}

type groupResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetUserID  *string `json:"target_user_id"`
	TargetAmount  *string `json:"target_amount"`
	CurrentAmount string  `json:"current_amount"`
	Progress      int     `json:"progress"`
	CreatedBy     string  `json:"created_by"`
}

type messageResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Content  string `json:"content"`
	IsEdited bool   `json:"is_edited"`
}

type profileResponse struct {
	UserID     string   `json:"user_id"`
	ShirtSize  *string  `json:"shirt_size"`
	Hobbies    []string `json:"hobbies"`
	Completion int      `json:"completion"`
}

// registerVerifyLogin walks a fresh account through signup, pulls the
// verification token straight from the database, confirms the address
// and logs in.
func registerVerifyLogin(t *testing.T, env *testEnv, client *http.Client, email, password, name string) (string, string) {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": password,
		"name":             name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	var token string
	err := env.db.WithContext(context.Background()).
		Raw("SELECT token FROM verification_tokens WHERE identifier = ?", email).
		Scan(&token).Error
	if err != nil || token == "" {
		t.Fatalf("fetch verification token: %v (token %q)", err, token)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/verify", "", map[string]string{"token": token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatalf("expected a session token")
	}
	if !login.User.Verified {
		t.Fatalf("expected verified user after verify step")
	}
	return login.Token, login.User.ID
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	token, userID := registerVerifyLogin(t, env, client, "alice@example.com", "sup3r-secret", "Alice")

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var me userResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != userID || me.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", me)
	}

	// a second register with the same address must be rejected
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"email":            "alice@example.com",
		"password":         "sup3r-secret",
		"confirm_password": "sup3r-secret",
		"name":             "Imposter",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EGiftFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	aliceToken, aliceID := registerVerifyLogin(t, env, client, "alice@example.com", "sup3r-secret", "Alice")
	bobToken, bobID := registerVerifyLogin(t, env, client, "bob@example.com", "sup3r-secret", "Bob")

	// Alice founds the family and becomes its admin.
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", aliceToken, map[string]string{
		"name": "The Makers",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var family familyResponse
	if err := json.Unmarshal(body, &family); err != nil {
		t.Fatalf("decode family: %v", err)
	}
	if len(family.InviteCode) != 9 || family.InviteCode[4] != '-' {
		t.Fatalf("expected XXXX-XXXX invite code, got %q", family.InviteCode)
	}

	// Bob joins with the shared code.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/join", bobToken, map[string]string{
		"code": family.InviteCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join family: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID+"/members", bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var members []memberResponse
	if err := json.Unmarshal(body, &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	// Alice publishes a wish; claim state stays hidden from her.
	price := "49.99"
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/"+family.ID+"/wishlist", aliceToken, map[string]interface{}{
		"title":    "Espresso machine",
		"price":    price,
		"priority": "HIGH",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/wishlist/"+item.ID+"/claim", bobToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("claim: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	// Owner view: claim invisible.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/wishlist/mine", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my wishlist: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var mine []itemResponse
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("decode my wishlist: %v", err)
	}
	if len(mine) != 1 || mine[0].ClaimedBy != nil || mine[0].ClaimedAt != nil {
		t.Fatalf("expected claim hidden from owner, got %+v", mine)
	}

	// Giver view: claim visible.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID+"/wishlist", bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("family wishlist: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var familyList []itemResponse
	if err := json.Unmarshal(body, &familyList); err != nil {
		t.Fatalf("decode family wishlist: %v", err)
	}
	if len(familyList) != 1 || familyList[0].ClaimedBy == nil || *familyList[0].ClaimedBy != bobID {
		t.Fatalf("expected claim visible to giver, got %+v", familyList)
	}

	// Second claim attempt by the owner is a self-claim, not allowed.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/wishlist/"+item.ID+"/claim", aliceToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("self claim: expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	// Bob pools a surprise gift for Alice. She is not a member, so the
	// group never shows up in her listing.
	target := "100"
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/"+family.ID+"/groups", bobToken, map[string]interface{}{
		"name":           "Coffee fund",
		"target_user_id": aliceID,
		"target_amount":  target,
		"member_ids":     []string{},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var group groupResponse
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID+"/groups", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list groups: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var aliceGroups []groupResponse
	if err := json.Unmarshal(body, &aliceGroups); err != nil {
		t.Fatalf("decode groups: %v", err)
	}
	if len(aliceGroups) != 0 {
		t.Fatalf("expected surprise group hidden from recipient, got %+v", aliceGroups)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/contributions", bobToken, map[string]interface{}{
		"amount": "25",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contribute: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group after contribution: %v", err)
	}
	if group.CurrentAmount != "25" || group.Progress != 25 {
		t.Fatalf("expected 25/25%%, got amount %q progress %d", group.CurrentAmount, group.Progress)
	}

	// Alice cannot touch the group she is not part of.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/groups/"+group.ID, aliceToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d: %s", resp.StatusCode, string(body))
	}

	// Group chat: post, then edit, which flags the message for good.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/messages", bobToken, map[string]interface{}{
		"content": "I can pick it up Friday",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post message: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var message messageResponse
	if err := json.Unmarshal(body, &message); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if message.IsEdited {
		t.Fatalf("fresh message must not be flagged edited")
	}

	resp, body = requestJSON(t, client, http.MethodPatch, env.server.URL+"/api/groups/"+group.ID+"/messages/"+message.ID, bobToken, map[string]interface{}{
		"content": "I can pick it up Saturday",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit message: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &message); err != nil {
		t.Fatalf("decode edited message: %v", err)
	}
	if !message.IsEdited || message.Content != "I can pick it up Saturday" {
		t.Fatalf("expected edited message, got %+v", message)
	}

	// Gift profile round trip.
	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/families/"+family.ID+"/profiles/me", aliceToken, map[string]interface{}{
		"shirt_size": "M",
		"hobbies":    []string{"pottery"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upsert profile: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID+"/profiles/"+aliceID, bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get profile: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.ShirtSize == nil || *profile.ShirtSize != "M" || profile.Completion == 0 {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	// Plain members cannot delete the family.
	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/families/"+family.ID, bobToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d: %s", resp.StatusCode, string(body))
	}

	// Admin delete cascades to every dependent row.
	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/families/"+family.ID, aliceToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete family: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	for _, table := range []string{"family_members", "profiles", "wishlist_items", "gift_groups", "gift_group_members", "messages"} {
		var count int64
		if err := env.db.WithContext(context.Background()).Table(table).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s emptied by cascade, got %d rows", table, count)
		}
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families", bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list families: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var remaining []familyResponse
	if err := json.Unmarshal(body, &remaining); err != nil {
		t.Fatalf("decode families: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no families after delete, got %+v", remaining)
	}
}

func TestE2EAccountDeletionLeavesFamilyIntact(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	aliceToken, aliceID := registerVerifyLogin(t, env, client, "alice@example.com", "sup3r-secret", "Alice")
	bobToken, bobID := registerVerifyLogin(t, env, client, "bob@example.com", "sup3r-secret", "Bob")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", aliceToken, map[string]string{
		"name": "The Makers",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var family familyResponse
	if err := json.Unmarshal(body, &family); err != nil {
		t.Fatalf("decode family: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/join", bobToken, map[string]string{
		"code": family.InviteCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join family: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	// Bob leaves tracks everywhere: a profile, a wish of his own and a
	// claim on Alice's, a contribution and a message in Alice's group.
	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/families/"+family.ID+"/profiles/me", bobToken, map[string]interface{}{
		"shirt_size": "L",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upsert profile: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/"+family.ID+"/wishlist", bobToken, map[string]interface{}{
		"title": "Chess set",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add bob item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/"+family.ID+"/wishlist", aliceToken, map[string]interface{}{
		"title": "Espresso machine",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add alice item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var aliceItem itemResponse
	if err := json.Unmarshal(body, &aliceItem); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/wishlist/"+aliceItem.ID+"/claim", bobToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("claim: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/"+family.ID+"/groups", aliceToken, map[string]interface{}{
		"name":       "Coffee fund",
		"member_ids": []string{bobID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var group groupResponse
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/contributions", bobToken, map[string]interface{}{
		"amount": "10",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contribute: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/messages", bobToken, map[string]interface{}{
		"content": "count me in",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post message: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	// Bob deletes his account; the session token dies with it.
	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/auth/me", bobToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete account: expected 204, got %d: %s", resp.StatusCode, string(body))
	}
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", bobToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d: %s", resp.StatusCode, string(body))
	}

	// Only Bob's rows disappear.
	ctx := context.Background()
	for table, want := range map[string]int64{
		"users":              1,
		"family_members":     1,
		"profiles":           0,
		"gift_group_members": 1,
		"messages":           0,
		"wishlist_items":     1,
	} {
		var count int64
		if err := env.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != want {
			t.Fatalf("expected %d rows in %s after account deletion, got %d", want, table, count)
		}
	}

	// Alice's claimed item is released, not deleted.
	var claimedBy sql.NullString
	err := env.db.WithContext(ctx).
		Raw("SELECT claimed_by FROM wishlist_items WHERE id = ?", aliceItem.ID).
		Scan(&claimedBy).Error
	if err != nil {
		t.Fatalf("fetch claim: %v", err)
	}
	if claimedBy.Valid {
		t.Fatalf("expected claim released after claimer deletion, got %v", claimedBy.String)
	}

	// The family and the pooled total survive.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID, aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get family: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/groups/"+group.ID, aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get group: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if group.CurrentAmount != "10" {
		t.Fatalf("expected pooled amount kept, got %q", group.CurrentAmount)
	}

	members := []memberResponse{}
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+family.ID+"/members", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != aliceID {
		t.Fatalf("expected only the creator left, got %+v", members)
	}
}
