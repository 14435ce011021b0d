// Package mocks provides generated mocks for the auth core's ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	cache := mocks.NewMockSessionCache(ctrl)
//	cache.EXPECT().Clear(gomock.Any()).Return(nil)
package mocks

// Generate mocks for the session cache and preference store ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/hrportal-go/internal/ports SessionCache,PrefStore
