//go:generate mockgen -source=../native_consumer.go      -destination=./mock_native_consumer.go      -package=mocks
//go:generate mockgen -source=../message_repository.go   -destination=./mock_message_repository.go   -package=mocks
//go:generate mockgen -source=../message_cache.go        -destination=./mock_message_cache.go        -package=mocks
//go:generate mockgen -source=../message_read_service.go -destination=./mock_message_read_service.go -package=mocks
//go:generate mockgen -source=../consumer_control.go     -destination=./mock_consumer_control.go     -package=mocks
//go:generate mockgen -source=../logger.go               -destination=./mock_logger.go               -package=mocks
//go:generate mockgen -source=../message_consumer.go     -destination=./mock_message_consumer.go     -package=mocks

package mocks
