// Package types holds the JSON messages exchanged over /ws.
//
// Client -> Server
// join:
//   code: string
//
// pick, sim_pick:
//   pick: { round, pick, overall, team, player }
//
// auto_pick: {}
//
// start_draft:
//   teamControllers: { [teamCode]: { type: "CPU" | "USER", name } }
//   rounds: number
//   slotsPerRound: number // optional
//   availablePlayerIds: string[]
//   trades: { pickOverall, fromTeam, toTeam }[] // optional
//
// reset_draft: {}
//
// Server -> Client
// session_state: session, clients
// client_count: clients
// draft_started: session
// pick_made: pick, session
// draft_reset: session
// error: message
package types
