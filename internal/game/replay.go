package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/norsetcg/cardengine/internal/game/match"
	"go.uber.org/zap"
)

// transcriptVersion is the on-disk format of saved transcripts.
const transcriptVersion = 1

// Replay is the recorded history of one match: every committed state, oldest first.
// States are immutable, so stepping through a replay never copies them.
type Replay struct {
	MatchID      string
	States       []*match.State
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(matchID string) *Replay {
	return &Replay{
		MatchID: matchID,
		States:  make([]*match.State, 0),
	}
}

// RecordState appends a committed state.
func (r *Replay) RecordState(st *match.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, st)
}

// Start rewinds to the first state.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the state at the cursor and advances it. It returns nil past the end.
func (r *Replay) Next() *match.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		st := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return st
	}
	return nil
}

// Previous moves the cursor back one state and returns it.
func (r *Replay) Previous() *match.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count states, clamped to the recording.
func (r *Replay) Skip(count int) *match.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := min(r.CurrentIndex+count, len(r.States)-1)
	idx = max(idx, 0)
	r.CurrentIndex = idx
	if idx < len(r.States) {
		return r.States[idx]
	}
	return nil
}

// Size is the number of recorded states.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// StateAt returns the state at index, or nil when out of range.
func (r *Replay) StateAt(index int) *match.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Last is the newest recorded state.
func (r *Replay) Last() *match.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Transcript is the saved form of a replay: the audit log of its last state plus the
// checksum that state had.
type Transcript struct {
	MatchID  string
	Saved    time.Time
	Version  int
	States   int
	Checksum string
	Entries  []match.LogEvent
}

type transcriptHeader struct {
	MatchID    string
	Saved      time.Time
	Version    int
	States     int
	Checksum   string
	EntryCount int
}

func transcriptPath(directory, matchID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", matchID))
}

// SaveToFile writes the replay's transcript to <directory>/<match id>.replay as gzipped
// gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return fmt.Errorf("replay %s has no states", r.MatchID)
	}
	last := r.States[len(r.States)-1]
	entries := last.Log()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(transcriptPath(directory, r.MatchID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	enc := gob.NewEncoder(gz)

	header := transcriptHeader{
		MatchID:    r.MatchID,
		Saved:      time.Now(),
		Version:    transcriptVersion,
		States:     len(r.States),
		Checksum:   last.Checksum(),
		EntryCount: len(entries),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadTranscript reads a transcript written by SaveToFile.
func LoadTranscript(directory, matchID string) (*Transcript, error) {
	file, err := os.Open(transcriptPath(directory, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()
	dec := gob.NewDecoder(gz)

	var header transcriptHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if header.Version != transcriptVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", header.Version)
	}

	t := &Transcript{
		MatchID:  header.MatchID,
		Saved:    header.Saved,
		Version:  header.Version,
		States:   header.States,
		Checksum: header.Checksum,
		Entries:  make([]match.LogEvent, 0, header.EntryCount),
	}
	for i := 0; i < header.EntryCount; i++ {
		var ev match.LogEvent
		if err := dec.Decode(&ev); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		t.Entries = append(t.Entries, ev)
	}
	return t, nil
}

// ReplayRecorder keeps replays for the matches an engine plays.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay // match id -> replay
	enabled map[string]bool    // match id -> recording
	saveDir string
}

// NewReplayRecorder creates a recorder that saves into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// StartRecording begins a fresh replay for a match.
func (rr *ReplayRecorder) StartRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[matchID] = NewReplay(matchID)
	rr.enabled[matchID] = true
	rr.logger.Info("started replay recording", zap.String("match_id", matchID))
}

// StopRecording stops recording a match and keeps what was recorded.
func (rr *ReplayRecorder) StopRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[matchID] = false
	rr.logger.Info("stopped replay recording", zap.String("match_id", matchID))
}

// RecordState records a committed state if its match is being recorded.
func (rr *ReplayRecorder) RecordState(st *match.State) {
	rr.mu.RLock()
	enabled := rr.enabled[st.ID()]
	replay := rr.replays[st.ID()]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.RecordState(st)
	rr.logger.Debug("recorded replay state",
		zap.String("match_id", st.ID()),
		zap.Int("state_count", replay.Size()),
	)
}

// GetReplay returns the replay of a match.
func (rr *ReplayRecorder) GetReplay(matchID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[matchID]
	return replay, ok
}

// SaveReplay writes a match's transcript to disk and forgets the replay.
func (rr *ReplayRecorder) SaveReplay(matchID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[matchID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for match %s", matchID)
	}
	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("match_id", matchID),
		zap.Int("state_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadTranscript reads a saved transcript from the recorder's directory.
func (rr *ReplayRecorder) LoadTranscript(matchID string) (*Transcript, error) {
	t, err := LoadTranscript(rr.saveDir, matchID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("match_id", matchID),
		zap.Int("entries", len(t.Entries)),
	)
	return t, nil
}

// ClearReplay forgets a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)
	rr.logger.Debug("cleared replay from memory", zap.String("match_id", matchID))
}

// IsRecording reports whether a match is being recorded.
func (rr *ReplayRecorder) IsRecording(matchID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[matchID]
}
