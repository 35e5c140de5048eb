package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pos/internal/handler"
	"pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo *echo.Echo
	log  logger.Logger
}

// 共通ミドルウェアを付けたechoを作る。ルートはRegisterRoutesで登録
func New(log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorf(err, "panic recovered: %s", stack)
			return err
		},
	}))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Warnf("%s %s status=%d latency=%s request_id=%s error=%v",
					v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Infof("%s %s status=%d latency=%s request_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	return &Server{echo: e, log: log}
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Shutdownで止めた場合はnil
func (s *Server) Start(addr string) error {
	s.log.Infof("HTTP server started on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// echoのエラーも {success:false, message} で返す
func errorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		} else {
			log.Errorf(err, "unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, handler.ErrorResponse{Success: false, Message: msg})
		}
		if err != nil {
			log.Errorf(err, "write error response")
		}
	}
}

// 起動からシグナル後の停止まで。stopが閉じたら止める
func (s *Server) Run(addr string, stop <-chan struct{}, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Infof("received shutdown signal, stopping gracefully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Infof("HTTP server stopped")
	return <-errCh
}
