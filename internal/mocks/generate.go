// Package mocks provides mock implementations for testing the webhook pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProjectRepository(ctrl)
//	mockRepo.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(project, nil)
package mocks

// Generate mock for ProjectRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=project_repository_mock.go github.com/archlens/scan-api/internal/core ProjectRepository

// Generate mock for ScanRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=scan_repository_mock.go github.com/archlens/scan-api/internal/core ScanRepository

// Generate mock for WebhookEventRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=webhook_event_repository_mock.go github.com/archlens/scan-api/internal/core WebhookEventRepository

// Generate mock for QueueNotifier interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=queue_notifier_mock.go github.com/archlens/scan-api/internal/core QueueNotifier
