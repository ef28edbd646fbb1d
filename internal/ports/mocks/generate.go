//go:generate mockgen -source=../order_source.go    -destination=./mock_order_source.go    -package=mocks
//go:generate mockgen -source=../export_storage.go  -destination=./mock_export_storage.go  -package=mocks
//go:generate mockgen -source=../artifact_store.go  -destination=./mock_artifact_store.go  -package=mocks
//go:generate mockgen -source=../event_publisher.go -destination=./mock_event_publisher.go -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks
//go:generate mockgen -source=../export_service.go  -destination=./mock_export_service.go  -package=mocks

package mocks
