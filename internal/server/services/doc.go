// Package services contains the business logic of the upload-link server:
// administrator accounts and tokens (UserService) and upload link
// management (LinkService).
package services
