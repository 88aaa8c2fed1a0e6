package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const RequestIDKey = "requestId"

const (
	DatabaseMySQL  = "mysql"
	DatabaseSQLite = "sqlite"
)
