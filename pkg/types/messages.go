package types

// Client -> Server (JSON over the room websocket)
//
// act (active player only, aim state):
//   vx, vy: number  // launch vector, server clamps both components
//
// dash (active player only, resolving state, post-flick window): {}
//
// pick (lobby only):
//   char: "sparky" | "tank" | "pinball" | "wisp"
//
// ready (lobby only):
//   ready: boolean
//
// mode (host only, lobby only):
//   mode: "race" | "boss"
//
// start (host only): {}          // rejected unless every seat is ready
// reset (host only): {}          // tear down the game, back to lobby
// reload_stage (host only): {}
// reset_positions (host only): {}

// Server -> Client
//
// snapshot (broadcast at the snapshot rate):
//   room: { code, hostId, mode, seats: [{id, name, char, ready}] }
//   game: null | {
//     mode, round, phase: "play" | "round_end",
//     turn: { activeId, state: "aim" | "resolving" | "boss_turn", msLeft, order },
//     stage: { name, bounds, walls, pads, hazards, coins, pickups, props, finish?, boss? },
//     players: [...], boss: null | {...}, winner,
//     toasts: [string],  // one-shot, delivered at most once
//     shake: number      // one-shot screen-shake magnitude
//   }
//
// error:
//   error: string  // host command rejections only; gameplay inputs fail closed
