package brogue

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MessageSink receives the combat log narrating outcomes to the player.
type MessageSink interface {
	Message(text string, style LogStyle)
	// EndTurn marks the end of a player turn.
	EndTurn()
}

// LogStyle describes the various message styles.
type LogStyle int

const (
	LogNormal     LogStyle = iota
	LogHurtMons            // when monsters are hurt
	LogHurtPlayer          // when player is hurt
	LogNotable             // when you discover or notice something notable
	LogSpecial             // important special message
	LogStatusEnd           // when a status ends
)

// Rune returns the markup @rune corresponding to each log style.
func (st LogStyle) Rune() rune {
	var r rune
	switch st {
	case LogHurtMons:
		r = 'G'
	case LogHurtPlayer:
		r = 'O'
	case LogNotable:
		r = 'Y'
	case LogSpecial:
		r = 'C'
	case LogStatusEnd:
		r = 'B'
	default:
		r = 'N'
	}
	return r
}

// Logs is the default message sink: it keeps all entries in memory.
type Logs struct {
	Entries  []LogEntry // all the log entries
	Index    int        // index of next log entry
	NextTick int        // index of first log entry in a turn
}

// LogEntry describes a log entry.
type LogEntry struct {
	Text  string   // text for entry
	Index int      // index of entry in log
	Tick  bool     // whether first entry in a turn
	Style LogStyle // style
	Dups  int      // number of duplicates of current entry
}

func (e LogEntry) String() string {
	tick := ""
	if e.Tick {
		tick = "• "
	}
	s := e.Text
	if e.Dups > 0 {
		s += fmt.Sprintf(" (%d×)", e.Dups+1)
	}
	return tick + s
}

// Markup returns the entry text with gruid style markup.
func (e LogEntry) Markup() string {
	return fmt.Sprintf("@%c%s@N", e.Style.Rune(), e.String())
}

// Message adds a new entry, collapsing consecutive duplicates within a turn.
func (l *Logs) Message(text string, style LogStyle) {
	e := LogEntry{Text: upperFirst(text), Index: l.Index, Style: style}
	if e.Index == l.NextTick {
		e.Tick = true
	}
	if !e.Tick && len(l.Entries) > 0 {
		le := &l.Entries[len(l.Entries)-1]
		if le.Text == e.Text {
			le.Dups++
			return
		}
	}
	l.Entries = append(l.Entries, e)
	l.Index++
	if len(l.Entries) > 10000 {
		l.Entries = l.Entries[1000:]
	}
}

// EndTurn marks the next entry as the first of a new turn.
func (l *Logs) EndTurn() {
	l.NextTick = l.Index
}

// Last returns the last n entries.
func (l *Logs) Last(n int) []LogEntry {
	if n > len(l.Entries) {
		n = len(l.Entries)
	}
	return l.Entries[len(l.Entries)-n:]
}

// upperFirst returns a string with its first letter in upper case.
func upperFirst(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[utf8.RuneLen(r):]
}

func (w *World) Log(s string) {
	w.Msgs.Message(s, LogNormal)
}

func (w *World) LogStyled(s string, style LogStyle) {
	w.Msgs.Message(s, style)
}

func (w *World) Logf(format string, a ...any) {
	w.Msgs.Message(fmt.Sprintf(format, a...), LogNormal)
}

func (w *World) LogfStyled(format string, style LogStyle, a ...any) {
	w.Msgs.Message(fmt.Sprintf(format, a...), style)
}

// discardSink drops every message.
type discardSink struct{}

func (discardSink) Message(string, LogStyle) {}
func (discardSink) EndTurn()                 {}

// DiscardMessages is a message sink that drops everything, used for
// simulations without an observer.
var DiscardMessages MessageSink = discardSink{}
