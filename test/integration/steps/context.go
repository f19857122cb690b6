// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/dispatch-hub/backend/config"
	"github.com/dispatch-hub/backend/internal/infra/dependency"
	"github.com/dispatch-hub/backend/internal/infra/workerpool"
	"github.com/dispatch-hub/backend/internal/integration/persistence/model"
	"github.com/dispatch-hub/backend/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	server       *httptest.Server
	db           *mock.Db
	imageRoot    string
	response     *http.Response
	responseBody []byte

	requestHeaders map[string]string

	// Session tokens by username, plus the one sent with requests
	tokens       map[string]string
	userIDs      map[string]int
	sessionToken string
}

type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		database := mock.NewDb(model.AllModels()...)
		if err := database.ClearDB(); err != nil {
			return ctx, fmt.Errorf("failed to clear database: %w", err)
		}
		redisClient := mock.NewRedis()
		if err := mock.ClearRedis(redisClient); err != nil {
			return ctx, fmt.Errorf("failed to clear redis: %w", err)
		}

		imageRoot, err := os.MkdirTemp("", "profile-images-*")
		if err != nil {
			return ctx, err
		}

		cfg := config.Load()
		cfg.Auth.BcryptCost = bcrypt.MinCost
		cfg.Auth.RateLimitEnabled = false
		cfg.Images.Root = imageRoot
		cfg.Images.MaxDimension = 1024

		pool := workerpool.New(workerpool.Config{Size: 2})
		injector := dependency.NewInjector(cfg, database.DbConn, redisClient, pool)

		tc := &TestContext{
			server:         httptest.NewServer(injector.Router.Setup("test")),
			db:             database,
			imageRoot:      imageRoot,
			requestHeaders: make(map[string]string),
			tokens:         make(map[string]string),
			userIDs:        make(map[string]int),
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := GetTestContext(ctx); tc != nil {
			tc.server.Close()
			_ = os.RemoveAll(tc.imageRoot)
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerAuthSteps(ctx)
	registerResponseSteps(ctx)
}

func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
}

func registerAuthSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a registered "([^"]*)" named "([^"]*)" with password "([^"]*)"$`, aRegisteredUser)
	ctx.Step(`^a registered dispatcher named "([^"]*)" with password "([^"]*)" in area (\d+)$`, aRegisteredDispatcher)
	ctx.Step(`^I use the session of "([^"]*)"$`, iUseTheSessionOf)
	ctx.Step(`^I use the session token "([^"]*)"$`, iUseTheSessionToken)
	ctx.Step(`^I remember the session of "([^"]*)" from the response$`, iRememberTheSessionFromTheResponse)
	ctx.Step(`^"([^"]*)" has a (\d+)x(\d+) profile image "([^"]*)"$`, hasAProfileImage)
	ctx.Step(`^"([^"]*)" has a corrupt profile image "([^"]*)"$`, hasACorruptProfileImage)
	ctx.Step(`^I request the profile image of "([^"]*)" at (\d+)x(\d+)$`, iRequestTheProfileImageOf)
}

func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should not exist$`, theResponseFieldShouldNotExist)
	ctx.Step(`^the response should be a (\d+)x(\d+) PNG image$`, theResponseShouldBeAPNGImage)
	ctx.Step(`^the responses of "([^"]*)" and "([^"]*)" logins should be identical$`, theLoginResponsesShouldBeIdentical)
}

func (tc *TestContext) send(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.sessionToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func (tc *TestContext) responseJSON() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w. Body: %s", err, string(tc.responseBody))
	}
	return data, nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	return GetTestContext(ctx).send(method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	return GetTestContext(ctx).send(method, endpoint, bytes.NewBufferString(body.Content))
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	GetTestContext(ctx).requestHeaders[header] = value
	return nil
}

func (tc *TestContext) register(payload map[string]any) error {
	body, _ := json.Marshal(payload)
	if err := tc.send(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body)); err != nil {
		return err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("registration failed with %d: %s", tc.response.StatusCode, string(tc.responseBody))
	}
	username, _ := payload["username"].(string)
	return tc.rememberSession(username)
}

func (tc *TestContext) rememberSession(username string) error {
	data, err := tc.responseJSON()
	if err != nil {
		return err
	}
	token, ok := data["session_token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("response has no session_token: %s", string(tc.responseBody))
	}
	userID, ok := data["user_id"].(float64)
	if !ok {
		return fmt.Errorf("response has no user_id: %s", string(tc.responseBody))
	}
	tc.tokens[username] = token
	tc.userIDs[username] = int(userID)
	return nil
}

func aRegisteredUser(ctx context.Context, role, username, password string) error {
	return GetTestContext(ctx).register(map[string]any{
		"username": username,
		"password": password,
		"role":     role,
	})
}

func aRegisteredDispatcher(ctx context.Context, username, password string, areaID int) error {
	return GetTestContext(ctx).register(map[string]any{
		"username": username,
		"password": password,
		"role":     "dispatcher",
		"area_id":  areaID,
	})
}

func iUseTheSessionOf(ctx context.Context, username string) error {
	tc := GetTestContext(ctx)
	token, ok := tc.tokens[username]
	if !ok {
		return fmt.Errorf("no session recorded for %q", username)
	}
	tc.sessionToken = token
	return nil
}

func iUseTheSessionToken(ctx context.Context, token string) error {
	GetTestContext(ctx).sessionToken = token
	return nil
}

func iRememberTheSessionFromTheResponse(ctx context.Context, username string) error {
	return GetTestContext(ctx).rememberSession(username)
}

func (tc *TestContext) setProfileImage(username, name string, content []byte) error {
	userID, ok := tc.userIDs[username]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}
	if err := os.WriteFile(filepath.Join(tc.imageRoot, name), content, 0o600); err != nil {
		return err
	}
	return tc.db.DbConn.Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("profile_image", name).Error
}

func hasAProfileImage(ctx context.Context, username string, width, height int, name string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return GetTestContext(ctx).setProfileImage(username, name, buf.Bytes())
}

func hasACorruptProfileImage(ctx context.Context, username, name string) error {
	return GetTestContext(ctx).setProfileImage(username, name, []byte("definitely not an image"))
}

func iRequestTheProfileImageOf(ctx context.Context, username string, width, height int) error {
	tc := GetTestContext(ctx)
	userID, ok := tc.userIDs[username]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}
	return tc.send(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/profile-image?width=%d&height=%d", userID, width, height), nil)
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	data, err := GetTestContext(ctx).responseJSON()
	if err != nil {
		return err
	}
	value, ok := data[field]
	if !ok {
		return fmt.Errorf("field '%s' not found in response", field)
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	data, err := GetTestContext(ctx).responseJSON()
	if err != nil {
		return err
	}
	if _, ok := data[field]; !ok {
		return fmt.Errorf("field '%s' not found in response", field)
	}
	return nil
}

func theResponseFieldShouldNotExist(ctx context.Context, field string) error {
	data, err := GetTestContext(ctx).responseJSON()
	if err != nil {
		return err
	}
	if _, ok := data[field]; ok {
		return fmt.Errorf("field '%s' should be absent. Body: %s", field, string(GetTestContext(ctx).responseBody))
	}
	return nil
}

func theResponseShouldBeAPNGImage(ctx context.Context, width, height int) error {
	tc := GetTestContext(ctx)
	if ct := tc.response.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		return fmt.Errorf("expected image/png, got %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(tc.responseBody))
	if err != nil {
		return fmt.Errorf("response is not a PNG: %w", err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("expected %dx%d, got %dx%d", width, height, b.Dx(), b.Dy())
	}
	return nil
}

func theLoginResponsesShouldBeIdentical(ctx context.Context, first, second string) error {
	tc := GetTestContext(ctx)
	bodies := make([]string, 0, 2)
	for _, username := range []string{first, second} {
		payload, _ := json.Marshal(map[string]string{"username": username, "password": "not-the-password"})
		if err := tc.send(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload)); err != nil {
			return err
		}
		if tc.response.StatusCode != http.StatusUnauthorized {
			return fmt.Errorf("expected 401 for %q, got %d", username, tc.response.StatusCode)
		}
		bodies = append(bodies, string(tc.responseBody))
	}
	if bodies[0] != bodies[1] {
		return fmt.Errorf("login failures differ:\n%s\n%s", bodies[0], bodies[1])
	}
	return nil
}
