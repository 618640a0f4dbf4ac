package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
	"github.com/skilly-social/backend/pkg/cloudinary"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) addUser(username string) *models.User {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     username + "@example.com",
		Role:      "USER",
		Followers: []string{},
		Following: []string{},
		Skills:    []string{},
	}
	r.users[user.ID.Hex()] = user
	return user
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Followers = append([]string{}, u.Followers...)
	cp.Following = append([]string{}, u.Following...)
	cp.Skills = append([]string{}, u.Skills...)
	return &cp
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Role == "" {
		user.Role = "USER"
	}
	r.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *copyUser(user))
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID.Hex()]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, keyword string) ([]models.User, error) {
	out := []models.User{}
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(keyword)) {
			out = append(out, *copyUser(user))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []string, page, size int, search string) ([]models.User, error) {
	matched := []models.User{}
	for _, id := range ids {
		user, ok := r.users[id]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *copyUser(user))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	start := page * size
	if start >= len(matched) {
		return []models.User{}, nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// fakePostRepo is an in-memory PostRepository
type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) addPost(userID, title string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
		Likes:     []string{},
		SavedBy:   []string{},
		SharedBy:  []string{},
		Comments:  []models.Comment{},
	}
	r.posts[post.ID.Hex()] = post
	return post
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.MediaUrls = append([]string{}, p.MediaUrls...)
	cp.MediaPublicIDs = append([]string{}, p.MediaPublicIDs...)
	cp.Likes = append([]string{}, p.Likes...)
	cp.SavedBy = append([]string{}, p.SavedBy...)
	cp.SharedBy = append([]string{}, p.SharedBy...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.SavedBy == nil {
		post.SavedBy = []string{}
	}
	if post.SharedBy == nil {
		post.SharedBy = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts[post.ID.Hex()] = copyPost(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return copyPost(post), nil
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID string) ([]models.Post, error) {
	out := []models.Post{}
	for _, post := range r.posts {
		if post.UserID == userID {
			out = append(out, *copyPost(post))
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	out := []models.Post{}
	for _, post := range r.posts {
		out = append(out, *copyPost(post))
	}
	return out, nil
}

func (r *fakePostRepo) GetPostsCreatedAfter(_ context.Context, t time.Time) ([]models.Post, error) {
	out := []models.Post{}
	for _, post := range r.posts {
		if post.CreatedAt.After(t) {
			out = append(out, *copyPost(post))
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetPostsSavedBy(_ context.Context, userID string) ([]models.Post, error) {
	out := []models.Post{}
	for _, post := range r.posts {
		if post.HasSaved(userID) {
			out = append(out, *copyPost(post))
		}
	}
	return out, nil
}

func (r *fakePostRepo) SearchPosts(_ context.Context, keyword string) ([]models.Post, error) {
	out := []models.Post{}
	for _, post := range r.posts {
		if strings.Contains(strings.ToLower(post.Title), strings.ToLower(keyword)) {
			out = append(out, *copyPost(post))
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID.Hex()]; !ok {
		return repositories.ErrPostNotFound
	}
	r.posts[post.ID.Hex()] = copyPost(post)
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// fakePlanRepo is an in-memory LearningPlanRepository
type fakePlanRepo struct {
	plans map[string]*models.LearningPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*models.LearningPlan{}}
}

func (r *fakePlanRepo) CreatePlan(_ context.Context, plan *models.LearningPlan) error {
	plan.ID = primitive.NewObjectID()
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.SharedWith == nil {
		plan.SharedWith = []string{}
	}
	r.plans[plan.ID.Hex()] = plan
	return nil
}

func (r *fakePlanRepo) GetPlanByID(_ context.Context, id string) (*models.LearningPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repositories.ErrPlanNotFound
	}
	cp := *plan
	return &cp, nil
}

func (r *fakePlanRepo) GetAllPlans(_ context.Context) ([]models.LearningPlan, error) {
	out := []models.LearningPlan{}
	for _, plan := range r.plans {
		out = append(out, *plan)
	}
	return out, nil
}

func (r *fakePlanRepo) GetPlansByUserID(_ context.Context, userID string) ([]models.LearningPlan, error) {
	out := []models.LearningPlan{}
	for _, plan := range r.plans {
		if plan.UserID == userID {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetPublicPlans(_ context.Context) ([]models.LearningPlan, error) {
	out := []models.LearningPlan{}
	for _, plan := range r.plans {
		if plan.IsPublic {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetPlansSharedWith(_ context.Context, userID string) ([]models.LearningPlan, error) {
	out := []models.LearningPlan{}
	for _, plan := range r.plans {
		for _, id := range plan.SharedWith {
			if id == userID {
				out = append(out, *plan)
				break
			}
		}
	}
	return out, nil
}

func (r *fakePlanRepo) UpdatePlan(_ context.Context, plan *models.LearningPlan) error {
	if _, ok := r.plans[plan.ID.Hex()]; !ok {
		return repositories.ErrPlanNotFound
	}
	plan.UpdatedAt = time.Now()
	cp := *plan
	r.plans[plan.ID.Hex()] = &cp
	return nil
}

func (r *fakePlanRepo) DeletePlan(_ context.Context, id string) error {
	if _, ok := r.plans[id]; !ok {
		return repositories.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}

// fakeNotificationRepo is an in-memory NotificationRepository
type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(_ context.Context, userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadByUserID(_ context.Context, userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	unread, _ := r.GetUnreadByUserID(ctx, userID)
	return int64(len(unread)), nil
}

func (r *fakeNotificationRepo) FindByRecipientSenderPostType(_ context.Context, userID, senderID, postID, notifType string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID && n.SenderID == senderID && n.PostID == postID && n.Type == notifType {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		deleted := false
		for _, id := range ids {
			if n.ID == id {
				deleted = true
				break
			}
		}
		if !deleted {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) DeleteByPostID(_ context.Context, postID string) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.PostID != postID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

// fakeNotifier records the notification pipeline calls
type fakeNotifier struct {
	likes    []string
	unlikes  []string
	comments []string
}

func (n *fakeNotifier) ProcessLike(_ context.Context, receiverID, senderID, postID string) error {
	n.likes = append(n.likes, receiverID+":"+senderID+":"+postID)
	return nil
}

func (n *fakeNotifier) ProcessUnlike(_ context.Context, receiverID, senderID, postID string) error {
	n.unlikes = append(n.unlikes, receiverID+":"+senderID+":"+postID)
	return nil
}

func (n *fakeNotifier) ProcessComment(_ context.Context, receiverID, senderID, postID string) error {
	n.comments = append(n.comments, receiverID+":"+senderID+":"+postID)
	return nil
}

func (n *fakeNotifier) MarkAllRead(_ context.Context, _ string) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

// fakeMediaStore records uploads and deletions
type fakeMediaStore struct {
	uploads       int
	videoDuration int
	deletedImages []string
	deletedVideos []string
}

func (s *fakeMediaStore) UploadImage(_ context.Context, _ io.Reader, folder string) (*cloudinary.Media, error) {
	s.uploads++
	id := fmt.Sprintf("%s/img-%d", folder, s.uploads)
	return &cloudinary.Media{URL: "https://cdn.example.com/" + id, PublicID: id}, nil
}

func (s *fakeMediaStore) UploadVideo(_ context.Context, _ io.Reader, folder string) (*cloudinary.Media, error) {
	s.uploads++
	id := fmt.Sprintf("%s/vid-%d", folder, s.uploads)
	return &cloudinary.Media{URL: "https://cdn.example.com/" + id, PublicID: id, Duration: s.videoDuration}, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, publicID string) error {
	s.deletedImages = append(s.deletedImages, publicID)
	return nil
}

func (s *fakeMediaStore) DeleteVideo(_ context.Context, publicID string) error {
	s.deletedVideos = append(s.deletedVideos, publicID)
	return nil
}

// newTestContext builds an echo context around a recorded request
func newTestContext(method, target, contentType string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser marks the request as authenticated
func asUser(c echo.Context, userID string) {
	c.Set("user", &models.JwtCustomClaims{UserID: userID, Role: "USER"})
}

// multipartBody builds a multipart form with the given fields, image count
// and optional video part
func multipartBody(t *testing.T, fields map[string]string, images int, video bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for i := 0; i < images; i++ {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="img%d.png"`, i))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		part.Write([]byte("png-bytes"))
	}
	if video {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="video"; filename="clip.mp4"`)
		h.Set("Content-Type", "video/mp4")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create video part: %v", err)
		}
		part.Write([]byte("mp4-bytes"))
	}
	w.Close()
	return buf, w.FormDataContentType()
}
