package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"

	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// fakeRepository is an in-memory adapter.AuthRepository.
type fakeRepository struct {
	mu            sync.Mutex
	users         map[int]*entity.User
	dispatchers   map[int]*entity.Dispatcher
	sessions      map[string]*entity.Session
	profileImages map[int]string
	nextUserID    int
	nextDispID    int
	writes        int

	findUserErr       error
	createUserErr     error
	createDispErr     error
	createSessionErr  error
	findSessionErr    error
	deleteSessionErr  error
	profileImageErr   error
	skipDispatcherRow bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         make(map[int]*entity.User),
		dispatchers:   make(map[int]*entity.Dispatcher),
		sessions:      make(map[string]*entity.Session),
		profileImages: make(map[int]string),
		nextUserID:    1,
		nextDispID:    100,
	}
}

func (r *fakeRepository) CreateUser(_ context.Context, username, passwordHash string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createUserErr != nil {
		return nil, r.createUserErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, domainerror.ErrUsernameAlreadyExists
		}
	}
	user := &entity.User{ID: r.nextUserID, Username: username, PasswordHash: passwordHash, Role: role}
	r.users[user.ID] = user
	r.nextUserID++
	r.writes++
	copied := *user
	return &copied, nil
}

func (r *fakeRepository) FindUserByID(_ context.Context, id int) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeRepository) FindUserByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findUserErr != nil {
		return nil, r.findUserErr
	}
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeRepository) CreateDispatcher(_ context.Context, userID, areaID int) (*entity.Dispatcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipDispatcherRow {
		return nil, nil
	}
	d := &entity.Dispatcher{ID: r.nextDispID, UserID: userID, AreaID: areaID}
	r.dispatchers[d.ID] = d
	r.nextDispID++
	r.writes++
	copied := *d
	return &copied, nil
}

// CreateDispatcherUser stores both rows or neither, like a transaction.
func (r *fakeRepository) CreateDispatcherUser(_ context.Context, username, passwordHash string, areaID int) (*entity.User, *entity.Dispatcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createUserErr != nil {
		return nil, nil, r.createUserErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, nil, domainerror.ErrUsernameAlreadyExists
		}
	}
	if r.createDispErr != nil {
		return nil, nil, r.createDispErr
	}

	user := &entity.User{ID: r.nextUserID, Username: username, PasswordHash: passwordHash, Role: entity.RoleDispatcher}
	r.users[user.ID] = user
	r.nextUserID++
	r.writes++
	copiedUser := *user
	if r.skipDispatcherRow {
		return &copiedUser, nil, nil
	}

	d := &entity.Dispatcher{ID: r.nextDispID, UserID: user.ID, AreaID: areaID}
	r.dispatchers[d.ID] = d
	r.nextDispID++
	r.writes++
	copiedDisp := *d
	return &copiedUser, &copiedDisp, nil
}

func (r *fakeRepository) FindDispatcherByID(_ context.Context, id int) (*entity.Dispatcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dispatchers[id]
	if !ok {
		return nil, domainerror.ErrDispatcherNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeRepository) FindDispatcherByUserID(_ context.Context, userID int) (*entity.Dispatcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.dispatchers {
		if d.UserID == userID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domainerror.ErrDispatcherNotFound
}

func (r *fakeRepository) FindProfileImageNameByUserID(_ context.Context, userID int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profileImageErr != nil {
		return "", r.profileImageErr
	}
	if _, ok := r.users[userID]; !ok {
		return "", domainerror.ErrUserNotFound
	}
	name, ok := r.profileImages[userID]
	if !ok {
		return "", domainerror.ErrProfileImageNotFound
	}
	return name, nil
}

func (r *fakeRepository) CreateSession(_ context.Context, userID int, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createSessionErr != nil {
		return r.createSessionErr
	}
	r.sessions[token] = &entity.Session{Token: token, UserID: userID, IsValid: true}
	r.writes++
	return nil
}

func (r *fakeRepository) DeleteSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteSessionErr != nil {
		return r.deleteSessionErr
	}
	delete(r.sessions, token)
	return nil
}

func (r *fakeRepository) FindSessionByToken(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findSessionErr != nil {
		return nil, r.findSessionErr
	}
	s, ok := r.sessions[token]
	if !ok {
		return nil, domainerror.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepository) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *fakeRepository) userCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeRepository) sessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *fakeRepository) sessionsFor(userID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.sessions {
		if s.UserID == userID {
			count++
		}
	}
	return count
}

// fakePasswordService stores passwords with a visible prefix.
type fakePasswordService struct {
	hashErr error
}

func (s *fakePasswordService) HashPassword(password string) (string, error) {
	if s.hashErr != nil {
		return "", s.hashErr
	}
	return "hashed:" + password, nil
}

func (s *fakePasswordService) VerifyPassword(hashedPassword, password string) (bool, error) {
	if !strings.HasPrefix(hashedPassword, "hashed:") {
		return false, errors.New("malformed hash")
	}
	return hashedPassword == "hashed:"+password, nil
}

// sequenceTokenService returns predictable, unique tokens.
type sequenceTokenService struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceTokenService) GenerateSessionToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("token-%d", s.next), nil
}

// inlineRunner runs tasks on the calling goroutine.
type inlineRunner struct {
	calls int
	mu    sync.Mutex
}

func (r *inlineRunner) Run(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func (r *inlineRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// pngProcessor decodes real files and scales with nearest-neighbour sampling.
type pngProcessor struct{}

func (pngProcessor) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func (pngProcessor) ResizeExact(img image.Image, width, height int) image.Image {
	src := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx := src.Min.X + x*src.Dx()/width
			sy := src.Min.Y + y*src.Dy()/height
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

func (pngProcessor) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func intPtr(v int) *int {
	return &v
}
