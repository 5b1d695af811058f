package model

import "time"

const DefaultTimeout = 500 * time.Millisecond
const DefaultLockTimeout = 2 * time.Second
const DefaultSnapshotBuffer = 1024

const HeaderContentType = "Content-Type"

type ContextKey string

const (
	KeyContextLogger ContextKey = "logger"
	KeyContextUserID ContextKey = "user_id"
)

const KeyLoggerError = "error"
