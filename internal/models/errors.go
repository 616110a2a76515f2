package models

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyExists       = errors.New("record already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidContentType  = errors.New("content_type must be microblog, community or event")
	ErrInvalidInteraction  = errors.New("interaction_type must be view, like, comment or share")
	ErrMissingContentID    = errors.New("content_id is required")
	ErrNotCommunityMember  = errors.New("user is not a member of the community")
	ErrSelfFollow          = errors.New("users cannot follow themselves")
	ErrReportAlreadyClosed = errors.New("report is already resolved or dismissed")
)
