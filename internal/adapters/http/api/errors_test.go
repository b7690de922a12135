package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/jobmatch/internal/auth"
	"github.com/okian/jobmatch/internal/domain/model"
)

func TestClassify(t *testing.T) {
	convey.Convey("Given wrapped domain errors", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{Wrap("op", fmt.Errorf("user x: %w", model.ErrNotFound)), http.StatusNotFound, "not_found"},
			{WrapKind("op", ErrBadRequest, errors.New("bad json")), http.StatusBadRequest, "bad_request"},
			{Wrap("op", model.ErrConflict), http.StatusConflict, "conflict"},
			{Wrap("op", auth.ErrInvalidToken), http.StatusUnauthorized, "unauthorized"},
			{Wrap("op", model.ErrBackpressure), http.StatusTooManyRequests, "backpressure"},
			{NewKind("op", ErrRateLimited), http.StatusTooManyRequests, "rate_limited"},
			{Wrap("op", &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge, "payload_too_large"},
			{Wrap("op", errors.New("disk on fire")), http.StatusInternalServerError, "internal"},
		}
		for _, c := range cases {
			status, code := classify(c.err)
			convey.So(status, convey.ShouldEqual, c.status)
			convey.So(code, convey.ShouldEqual, c.code)
		}
	})

	convey.Convey("Public messages drop the operation", t, func() {
		err := WrapKind("api.create_job", ErrBadRequest, errors.New("title is required"))
		convey.So(err.Error(), convey.ShouldEqual, "api.create_job: title is required")
		convey.So(publicMessage(err), convey.ShouldEqual, "title is required")
		convey.So(publicMessage(NewKind("op", ErrRateLimited)), convey.ShouldEqual, "too many requests")
	})
}

func TestIPLimiter(t *testing.T) {
	convey.Convey("Given a limiter of 60 per minute with burst 2", t, func() {
		l := newIPLimiter(60, 2)
		now := time.Unix(1_700_000_000, 0)
		l.now = func() time.Time { return now }

		convey.So(first(l.allow("1.1.1.1")), convey.ShouldBeTrue)
		convey.So(first(l.allow("1.1.1.1")), convey.ShouldBeTrue)
		ok, wait := l.allow("1.1.1.1")
		convey.So(ok, convey.ShouldBeFalse)
		convey.So(wait, convey.ShouldBeGreaterThan, 0)
		convey.So(retryAfter(wait), convey.ShouldEqual, "1")

		convey.Convey("Other clients have their own bucket", func() {
			convey.So(first(l.allow("2.2.2.2")), convey.ShouldBeTrue)
		})

		convey.Convey("Tokens refill over time", func() {
			now = now.Add(time.Second)
			convey.So(first(l.allow("1.1.1.1")), convey.ShouldBeTrue)
		})

		convey.Convey("Idle buckets are dropped", func() {
			now = now.Add(time.Hour)
			l.allow("3.3.3.3")
			convey.So(len(l.buckets), convey.ShouldEqual, 1)
		})
	})
}

func first(ok bool, _ time.Duration) bool { return ok }
