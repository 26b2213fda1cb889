package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyStoreDriver   string = "TRACKER_STORE_DRIVER"
	EnvKeyDbPath        string = "TRACKER_DB_PATH"
	EnvKeyPostgresDSN   string = "TRACKER_POSTGRES_DSN"
	EnvKeySnapshotKey   string = "TRACKER_SNAPSHOT_KEY"
	EnvKeyDynamoDBTable string = "TRACKER_DYNAMODB_TABLE"

	EnvKeyBlobDriver      string = "TRACKER_BLOB_DRIVER"
	EnvKeyBlobFSRoot      string = "TRACKER_BLOB_FS_ROOT"
	EnvKeyBlobS3Bucket    string = "TRACKER_BLOB_S3_BUCKET"
	EnvKeyBlobS3Region    string = "TRACKER_BLOB_S3_REGION"
	EnvKeyBlobS3Endpoint  string = "TRACKER_BLOB_S3_ENDPOINT"
	EnvKeyBlobS3PathStyle string = "TRACKER_BLOB_S3_PATH_STYLE"

	EnvKeyHttpHostPort string = "TRACKER_HTTP_HOST_PORT"

	EnvKeyDefaultRate  string = "TRACKER_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "TRACKER_DEFAULT_BURST"

	// same key the browser build used for localStorage
	DefaultSnapshotKey string = "medicalDeviceState"

	LoggerNameTracker       string = "tracker_core"
	LoggerNameStorage       string = "storage"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldCategory        string = "category"
	LoggerCategoryDevice       string = "device"
	LoggerCategoryInstallation string = "installation"
	LoggerCategoryServiceVisit string = "service_visit"
	LoggerCategoryContract     string = "contract"
	LoggerCategoryPhotoLog     string = "photo_log"
	LoggerCategoryFacility     string = "facility"
	LoggerCategorySnapshot     string = "snapshot"
	LoggerCategoryExport       string = "export"
	LoggerCategoryBlob         string = "blob"
)
