package dyncodec

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalSchemaBuilt      = capitan.NewSignal("dyncodec.schema.built", "Dynamic schema assembled")
	SignalReadStart        = capitan.NewSignal("dyncodec.read.start", "Read operation beginning")
	SignalReadComplete     = capitan.NewSignal("dyncodec.read.complete", "Read operation finished")
	SignalWriteStart       = capitan.NewSignal("dyncodec.write.start", "Write operation beginning")
	SignalWriteComplete    = capitan.NewSignal("dyncodec.write.complete", "Write operation finished")
	SignalLenientRecovered = capitan.NewSignal("dyncodec.lenient.recovered", "Lenient decode replaced a failure with its fallback")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyOps         = capitan.NewStringKey("ops")
	KeyFieldKeys   = capitan.NewStringKey("keys")
	KeySize        = capitan.NewIntKey("size")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyErr         = capitan.NewErrorKey("error")
)

// emitSchemaBuilt emits an event when a dynamic schema is built.
func emitSchemaBuilt(name string, fields int, keys []string) {
	capitan.Emit(context.Background(), SignalSchemaBuilt,
		KeyTypeName.Field(name),
		KeyFieldCount.Field(fields),
		KeyFieldKeys.Field(strings.Join(keys, ",")),
	)
}

// emitLenientRecovered emits an event when a lenient codec swallows a failure.
func emitLenientRecovered(ctx context.Context, ops string, keys []string, err error) {
	capitan.Error(ctx, SignalLenientRecovered,
		KeyOps.Field(ops),
		KeyFieldKeys.Field(strings.Join(keys, ",")),
		KeyErr.Field(err),
	)
}

// emitReadStart emits an event when a read begins.
func emitReadStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalReadStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitReadComplete emits an event when a read finishes.
func emitReadComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyErr.Field(err))
		capitan.Error(ctx, SignalReadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReadComplete, fields...)
	}
}

// emitWriteStart emits an event when a write begins.
func emitWriteStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalWriteStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitWriteComplete emits an event when a write finishes.
func emitWriteComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyErr.Field(err))
		capitan.Error(ctx, SignalWriteComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalWriteComplete, fields...)
	}
}
