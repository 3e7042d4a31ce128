// Package mocks provides gomock implementations of the ports interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockListingStore(ctrl)
//	store.EXPECT().Exists(gomock.Any(), "g1").Return(false, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_store_mock.go github.com/guildboard/guildboard/internal/ports ListingStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=guild_directory_mock.go github.com/guildboard/guildboard/internal/ports GuildDirectory
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=guild_actions_mock.go github.com/guildboard/guildboard/internal/ports GuildActions
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_provider_mock.go github.com/guildboard/guildboard/internal/ports AuthProvider
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/guildboard/guildboard/internal/ports SessionStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_guild_lister_mock.go github.com/guildboard/guildboard/internal/ports UserGuildLister
