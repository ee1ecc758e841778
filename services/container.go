package services

import "drivedrop/repositories"

type Container struct {
	Auth     AuthService
	Folder   FolderService
	Token    TokenService
	Link     LinkService
	Delivery DeliveryService
	Notify   NotifyService
}

func NewContainer(repos repositories.Container, google GoogleClients) *Container {
	tokenSvc := NewTokenService(repos.UploadLinks, repos.Users, google.Token)
	linkSvc := NewLinkService(repos.TxManager, repos.Users, repos.UserFolders, repos.UploadLinks, repos.TempLinks, tokenSvc)
	notifySvc := NewNotifyService(google.Mail)

	return &Container{
		Auth:   NewAuthService(repos.Users, google.OAuth),
		Folder: NewFolderService(repos.Users, repos.UserFolders, tokenSvc, google.Drive),
		Token:  tokenSvc,
		Link:   linkSvc,
		Notify: notifySvc,
		Delivery: NewDeliveryService(
			repos.Users,
			repos.UploadLinks,
			repos.Transfers,
			repos.PendingUploads,
			repos.Staging,
			linkSvc,
			tokenSvc,
			notifySvc,
			google.Drive,
		),
	}
}
