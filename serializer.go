package dyncodec

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"
)

// Format turns bytes into dynamic values of its Ops and back.
type Format interface {
	// ContentType returns the MIME type for this format (e.g., "application/json").
	ContentType() string

	// Ops returns the ops that own the values Unmarshal produces.
	Ops() Ops

	// Marshal renders a dynamic value of Ops as bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal parses data into a dynamic value of Ops.
	Unmarshal(data []byte) (any, error)
}

// Serializer binds a codec to a format for byte-level reads and writes.
// Serializers hold no mutable state and are safe for concurrent use.
type Serializer[A any] struct {
	format   Format
	codec    Codec[A]
	typeName string
}

// NewSerializer returns a serializer reading and writing A as format.
func NewSerializer[A any](format Format, codec Codec[A]) *Serializer[A] {
	return &Serializer[A]{
		format:   format,
		codec:    codec,
		typeName: reflect.TypeFor[A]().String(),
	}
}

// ContentType returns the content type of the underlying format.
func (s *Serializer[A]) ContentType() string {
	return s.format.ContentType()
}

// Read parses data and decodes an A from it.
func (s *Serializer[A]) Read(ctx context.Context, data []byte) (A, error) {
	start := time.Now()
	emitReadStart(ctx, s.format.ContentType(), s.typeName)

	var retErr error
	defer func() {
		emitReadComplete(ctx, s.format.ContentType(), s.typeName, len(data), time.Since(start), retErr)
	}()

	var zero A
	dyn, err := s.format.Unmarshal(data)
	if err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return zero, retErr
	}
	v, err := s.codec.Decode(ctx, s.format.Ops(), dyn)
	if err != nil {
		retErr = err
		return zero, retErr
	}
	return v, nil
}

// Write encodes v and renders it as bytes.
func (s *Serializer[A]) Write(ctx context.Context, v A) ([]byte, error) {
	start := time.Now()
	emitWriteStart(ctx, s.format.ContentType(), s.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitWriteComplete(ctx, s.format.ContentType(), s.typeName, len(retData), time.Since(start), retErr)
	}()

	dyn, err := s.codec.Encode(ctx, s.format.Ops(), v)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	retData, err = s.format.Marshal(dyn)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	return retData, nil
}

// ReadAll decodes docs on at most workers goroutines. Results keep the order of
// docs; failures are reported per index and joined. Documents not yet started when
// ctx is done fail with the context error.
func (s *Serializer[A]) ReadAll(ctx context.Context, docs [][]byte, workers int) ([]A, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]A, len(docs))
	errs := make([]error, len(docs))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			errs[i] = &IndexError{Index: i, Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			errs[i] = &IndexError{Index: i, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, doc []byte) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := s.Read(ctx, doc)
			if err != nil {
				errs[i] = &IndexError{Index: i, Err: err}
				return
			}
			out[i] = v
		}(i, doc)
	}
	wg.Wait()
	return out, errors.Join(errs...)
}
