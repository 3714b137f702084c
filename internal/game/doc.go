// Package game implements the core Set game logic: a dealer goroutine that
// owns the deck and the board layout, player goroutines that race to mark
// three-card sets, and the claim queue that serialises their submissions.
//
// The main types are Board, which holds the slot/card layout and player
// tokens behind a reader-writer lock, and Dealer, which runs the game to
// completion:
//
//	cfg := game.DefaultConfig()
//	oracle := game.NewFeatureOracle(cfg.Game.Features, cfg.Game.Options)
//	deck := game.NewDeck(cfg.DeckSize(), rng)
//	board := game.NewBoard(cfg.Game.TableSize, cfg.DeckSize(), len(cfg.Players), sink, clock)
//	claims := game.NewClaimQueue()
//	dealer := game.NewDealer(cfg, board, deck, oracle, claims, players, sink, clock, logger)
//	err := dealer.Run(ctx)
//
// Run returns once every player goroutine has been joined, whether the game
// ended naturally or the context was cancelled.
//
// # Deterministic Testing
//
// Every component takes its clock from github.com/coder/quartz and its
// randomness from an injected *rand.Rand, so tests can drive timers with a
// mock clock and replay games from a fixed seed.
package game
