package wire

import (
	"fmt"

	"github.com/louisbranch/mathic/internal/services/game/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

// Journal paging fields.
const (
	FieldEvents     = "events"
	FieldEvent      = "event"
	FieldSeq        = "seq"
	FieldRecordedAt = "recorded_at"
	FieldAfterSeq   = "after_seq"
	FieldPageSize   = "page_size"
	FieldOrderBy    = "order_by"
	FieldNextSeq    = "next_seq"
)

// JournalEntries encodes journal rows with their sequence numbers.
func JournalEntries(entries []storage.JournalEntry) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(entries))
	for _, entry := range entries {
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldSeq:        structpb.NewNumberValue(float64(entry.Seq)),
			FieldRecordedAt: timestamp(entry.RecordedAt),
			FieldEvent:      structpb.NewStructValue(Event(entry.Event)),
		}}))
	}
	return &structpb.ListValue{Values: values}
}

// DecodeJournalEntries reverses JournalEntries.
func DecodeJournalEntries(list *structpb.ListValue) ([]storage.JournalEntry, error) {
	out := make([]storage.JournalEntry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		row := v.GetStructValue()
		if row == nil {
			return nil, fmt.Errorf("journal entry %d is not an object", i)
		}
		seq, err := Int(row, FieldSeq)
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", i, err)
		}
		recordedAt, err := decodeTime(row, FieldRecordedAt)
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", i, err)
		}
		event, err := DecodeEvent(row.GetFields()[FieldEvent].GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", i, err)
		}
		out = append(out, storage.JournalEntry{Seq: int64(seq), RecordedAt: recordedAt, Event: event})
	}
	return out, nil
}
