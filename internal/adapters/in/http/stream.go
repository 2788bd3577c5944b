package http

import (
	"context"

	"logiflow/internal/core/application/views"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
)

type watchable interface {
	views.View
	Watch() (<-chan struct{}, func())
}

// Stream handles GET /{view}/stream: a websocket that receives the board on
// connect and again after every change. It ends when the view is unmounted.
func (s *Server) Stream(ctx echo.Context) error {
	view, err := viewAs[watchable](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	conn, err := websocket.Accept(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Accept has already written the error response.
		return nil
	}
	defer conn.CloseNow()

	watch, stop := view.Watch()
	defer stop()

	streamCtx := conn.CloseRead(ctx.Request().Context())
	if err := s.sendBoard(streamCtx, conn, view); err != nil {
		return nil
	}

	for {
		select {
		case <-streamCtx.Done():
			return nil
		case _, open := <-watch:
			if !open {
				_ = conn.Close(websocket.StatusGoingAway, "view closed")
				return nil
			}
			view.Touch()
			if err := s.sendBoard(streamCtx, conn, view); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) sendBoard(ctx context.Context, conn *websocket.Conn, view views.View) error {
	var board any
	switch v := view.(type) {
	case *views.RequesterView:
		board = toRequesterBoard(v.Snapshot())
	case *views.DriverView:
		board = toDriverBoard(v.Snapshot())
	case *views.SupervisorView:
		board = toSupervisorBoard(v.Snapshot())
	default:
		return errViewMismatch
	}

	if err := wsjson.Write(ctx, conn, board); err != nil {
		s.logger.DebugContext(ctx, "stream write failed", "error", err)
		return err
	}
	return nil
}
