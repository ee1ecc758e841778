package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drivedrop/config"
	"drivedrop/googleapi"
	"drivedrop/models"
	"drivedrop/repositories"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

func setupTestConfig() {
	config.AppConfig = &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
		Link: config.LinkConfig{
			TokenLength:        16,
			TempExpireHours:    24,
			RefreshBufferMin:   5,
			DefaultTokenTTLSec: 3600,
		},
		Upload:       config.UploadConfig{MaxFileSize: 10 * 1024 * 1024},
		Redis:        config.RedisConfig{StagingExpire: 86400},
		Notification: config.NotificationConfig{Enabled: true},
	}
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.calls++
	return fn(nil)
}

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByGoogleID(_ context.Context, _ *gorm.DB, googleID string) (models.User, error) {
	for _, user := range r.users {
		if user.GoogleID == googleID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, _ *gorm.DB, userID uint, updates map[string]interface{}) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "email":
			user.Email = value.(string)
		case "name":
			user.Name = value.(string)
		case "picture":
			user.Picture = value.(string)
		case "google_access_token":
			user.GoogleAccessToken = value.(string)
		case "google_refresh_token":
			user.GoogleRefreshToken = value.(string)
		case "token_expires_at":
			user.TokenExpiresAt = value.(time.Time)
		}
	}
	r.users[userID] = user
	return nil
}

type fakeUserFolderRepo struct {
	folders map[uint]models.UserFolder
}

func newFakeUserFolderRepo() *fakeUserFolderRepo {
	return &fakeUserFolderRepo{folders: map[uint]models.UserFolder{}}
}

func (r *fakeUserFolderRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uint) (models.UserFolder, error) {
	folder, ok := r.folders[userID]
	if !ok {
		return models.UserFolder{}, gorm.ErrRecordNotFound
	}
	return folder, nil
}

func (r *fakeUserFolderRepo) Upsert(_ context.Context, _ *gorm.DB, folder *models.UserFolder) error {
	r.folders[folder.UserID] = *folder
	return nil
}

type fakeLinkRepo struct {
	links   map[uint]models.UploadLink
	nextID  uint
	updates int
	creates int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[uint]models.UploadLink{}, nextID: 1}
}

func (r *fakeLinkRepo) add(link models.UploadLink) models.UploadLink {
	if link.ID == 0 {
		link.ID = r.nextID
		r.nextID++
	}
	r.links[link.ID] = link
	return link
}

func (r *fakeLinkRepo) GetActiveByToken(_ context.Context, _ *gorm.DB, token string) (models.UploadLink, error) {
	for _, link := range r.links {
		if link.UploadToken == token && link.IsActive {
			return link, nil
		}
	}
	return models.UploadLink{}, gorm.ErrRecordNotFound
}

func (r *fakeLinkRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uint) (models.UploadLink, error) {
	for _, link := range r.links {
		if link.UserID == userID {
			return link, nil
		}
	}
	return models.UploadLink{}, gorm.ErrRecordNotFound
}

func (r *fakeLinkRepo) GetByID(_ context.Context, _ *gorm.DB, linkID uint) (models.UploadLink, error) {
	link, ok := r.links[linkID]
	if !ok {
		return models.UploadLink{}, gorm.ErrRecordNotFound
	}
	return link, nil
}

func (r *fakeLinkRepo) Create(_ context.Context, _ *gorm.DB, link *models.UploadLink) error {
	r.creates++
	*link = r.add(*link)
	return nil
}

func (r *fakeLinkRepo) UpdateByID(_ context.Context, _ *gorm.DB, linkID uint, updates map[string]interface{}) error {
	link, ok := r.links[linkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "folder_id":
			link.FolderID = value.(string)
		case "folder_name":
			link.FolderName = value.(string)
		case "google_access_token":
			link.GoogleAccessToken = value.(string)
		case "google_refresh_token":
			link.GoogleRefreshToken = value.(string)
		case "token_expires_at":
			link.TokenExpiresAt = value.(time.Time)
		case "is_active":
			link.IsActive = value.(bool)
		}
	}
	r.links[linkID] = link
	r.updates++
	return nil
}

func (r *fakeLinkRepo) DeactivateByUser(_ context.Context, _ *gorm.DB, userID uint) error {
	for id, link := range r.links {
		if link.UserID == userID {
			link.IsActive = false
			r.links[id] = link
		}
	}
	return nil
}

type fakeTempLinkRepo struct {
	links  map[uint]models.TempLink
	nextID uint
}

func newFakeTempLinkRepo() *fakeTempLinkRepo {
	return &fakeTempLinkRepo{links: map[uint]models.TempLink{}, nextID: 1}
}

func (r *fakeTempLinkRepo) Create(_ context.Context, _ *gorm.DB, link *models.TempLink) error {
	if link.ID == 0 {
		link.ID = r.nextID
		r.nextID++
	}
	r.links[link.ID] = *link
	return nil
}

func (r *fakeTempLinkRepo) GetActiveByToken(_ context.Context, _ *gorm.DB, token string) (models.TempLink, error) {
	for _, link := range r.links {
		if link.Token == token && link.IsActive {
			return link, nil
		}
	}
	return models.TempLink{}, gorm.ErrRecordNotFound
}

func (r *fakeTempLinkRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint) ([]models.TempLink, error) {
	var out []models.TempLink
	for _, link := range r.links {
		if link.UserID == userID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (r *fakeTempLinkRepo) DeactivateByTokenAndUser(_ context.Context, _ *gorm.DB, token string, userID uint) error {
	for id, link := range r.links {
		if link.Token == token && link.UserID == userID {
			link.IsActive = false
			r.links[id] = link
		}
	}
	return nil
}

type fakeTransferRepo struct {
	transfers map[uint]models.Transfer
	nextID    uint
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: map[uint]models.Transfer{}, nextID: 1}
}

func (r *fakeTransferRepo) Create(_ context.Context, _ *gorm.DB, transfer *models.Transfer) error {
	if transfer.ID == 0 {
		transfer.ID = r.nextID
		r.nextID++
	}
	r.transfers[transfer.ID] = *transfer
	return nil
}

func (r *fakeTransferRepo) GetByTransferID(_ context.Context, _ *gorm.DB, transferID string) (models.Transfer, error) {
	for _, transfer := range r.transfers {
		if transfer.TransferID == transferID {
			return transfer, nil
		}
	}
	return models.Transfer{}, gorm.ErrRecordNotFound
}

func (r *fakeTransferRepo) UpdateByID(_ context.Context, _ *gorm.DB, id uint, updates map[string]interface{}) error {
	transfer, ok := r.transfers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			transfer.Status = value.(string)
		case "drive_file_id":
			transfer.DriveFileID = value.(string)
		}
	}
	r.transfers[id] = transfer
	return nil
}

func (r *fakeTransferRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint, _ int) ([]models.Transfer, error) {
	var out []models.Transfer
	for _, transfer := range r.transfers {
		if transfer.UserID == userID {
			out = append(out, transfer)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) mustGet(id uint) models.Transfer {
	return r.transfers[id]
}

type fakePendingRepo struct {
	uploads map[uint]models.PendingUpload
	nextID  uint
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{uploads: map[uint]models.PendingUpload{}, nextID: 1}
}

func (r *fakePendingRepo) Create(_ context.Context, _ *gorm.DB, upload *models.PendingUpload) error {
	if upload.ID == 0 {
		upload.ID = r.nextID
		r.nextID++
	}
	r.uploads[upload.ID] = *upload
	return nil
}

func (r *fakePendingRepo) ListPendingByUser(_ context.Context, _ *gorm.DB, userID uint) ([]models.PendingUpload, error) {
	var out []models.PendingUpload
	for _, upload := range r.uploads {
		if upload.UserID == userID && upload.Status == models.PendingStatusPending {
			out = append(out, upload)
		}
	}
	return out, nil
}

func (r *fakePendingRepo) UpdateByID(_ context.Context, _ *gorm.DB, id uint, updates map[string]interface{}) error {
	upload, ok := r.uploads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"]; ok {
		upload.Status = status.(string)
	}
	r.uploads[id] = upload
	return nil
}

type fakeStagingRepo struct {
	objects map[string][]byte
	deletes int
}

func newFakeStagingRepo() *fakeStagingRepo {
	return &fakeStagingRepo{objects: map[string][]byte{}}
}

func fakeStagingKey(pendingID uint, fileName string) string {
	return fmt.Sprintf("%d/%s", pendingID, fileName)
}

func (r *fakeStagingRepo) Put(_ context.Context, pendingID uint, fileName string, content []byte, _ time.Duration) error {
	r.objects[fakeStagingKey(pendingID, fileName)] = content
	return nil
}

func (r *fakeStagingRepo) Get(_ context.Context, pendingID uint, fileName string) ([]byte, error) {
	content, ok := r.objects[fakeStagingKey(pendingID, fileName)]
	if !ok {
		return nil, errors.New("staging object not found")
	}
	return content, nil
}

func (r *fakeStagingRepo) Delete(_ context.Context, pendingID uint, fileName string) error {
	delete(r.objects, fakeStagingKey(pendingID, fileName))
	r.deletes++
	return nil
}

type fakeExchanger struct {
	calls int
	resp  googleapi.TokenResponse
	err   error
}

func (e *fakeExchanger) RefreshAccessToken(_ context.Context, _ string) (googleapi.TokenResponse, error) {
	e.calls++
	if e.err != nil {
		return googleapi.TokenResponse{}, e.err
	}
	return e.resp, nil
}

type driveUpload struct {
	accessToken string
	input       googleapi.UploadInput
}

type fakeDrive struct {
	uploads []driveUpload
	fileID  string
	err     error
	folders []googleapi.Folder
}

func (d *fakeDrive) UploadMultipart(_ context.Context, accessToken string, in googleapi.UploadInput) (string, error) {
	d.uploads = append(d.uploads, driveUpload{accessToken: accessToken, input: in})
	if d.err != nil {
		return "", d.err
	}
	return d.fileID, nil
}

func (d *fakeDrive) ListFolders(_ context.Context, _ string) ([]googleapi.Folder, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.folders, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMail struct {
	capErr  error
	sendErr error
	sent    []sentMail
}

func (m *fakeMail) CheckSendCapability(_ context.Context, _ string) error {
	return m.capErr
}

func (m *fakeMail) SendMessage(_ context.Context, _, to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeOAuth struct {
	token *oauth2.Token
	info  googleapi.UserInfo
	err   error
}

func (o *fakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (o *fakeOAuth) Exchange(_ context.Context, _ string) (*oauth2.Token, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.token, nil
}

func (o *fakeOAuth) FetchUserInfo(_ context.Context, _ string) (googleapi.UserInfo, error) {
	if o.err != nil {
		return googleapi.UserInfo{}, o.err
	}
	return o.info, nil
}

// testRepos 把全部仓储假实现装配成 repositories.Container,
// 便于用真实 services 组合做集成式测试。
type testRepos struct {
	tx        *fakeTxManager
	users     *fakeUserRepo
	folders   *fakeUserFolderRepo
	links     *fakeLinkRepo
	tempLinks *fakeTempLinkRepo
	transfers *fakeTransferRepo
	pending   *fakePendingRepo
	staging   *fakeStagingRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		tx:        &fakeTxManager{},
		users:     newFakeUserRepo(),
		folders:   newFakeUserFolderRepo(),
		links:     newFakeLinkRepo(),
		tempLinks: newFakeTempLinkRepo(),
		transfers: newFakeTransferRepo(),
		pending:   newFakePendingRepo(),
		staging:   newFakeStagingRepo(),
	}
}

func (r *testRepos) container() repositories.Container {
	return repositories.Container{
		TxManager:      r.tx,
		Users:          r.users,
		UserFolders:    r.folders,
		UploadLinks:    r.links,
		TempLinks:      r.tempLinks,
		Transfers:      r.transfers,
		PendingUploads: r.pending,
		Staging:        r.staging,
	}
}
