package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	appMetrics "github.com/yigit/coursehub/internal/app/metrics"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/app/view"
	"github.com/yigit/coursehub/internal/bootstrap"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/pkg/async"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("coursehub failed")
		os.Exit(1)
	}
}

func newCLIApp() *cli.App {
	return &cli.App{
		Name:  "coursehub",
		Usage: "browse and edit the course catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"COURSEHUB_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "course API base URL, overrides api.base_url",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "log client request metrics on exit",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "show the first page of courses",
				Action: listCourses,
			},
			{
				Name:  "save",
				Usage: "replace the description of a course",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true, Usage: "course id"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Required: true, Usage: "new description"},
				},
				Action: saveCourse,
			},
		},
	}
}

// session is the state shared by every command
type session struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *appMetrics.Metrics
	svc     services.CourseService
	app     *view.App
}

func newSession(c *cli.Context) (*session, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	if u := c.String("base-url"); u != "" {
		cfg.API.BaseURL = u
	}

	s := &session{cfg: cfg, logger: lgr}
	if c.Bool("metrics") {
		s.metrics = appMetrics.New()
	}

	s.svc, err = bootstrap.NewCourseService(cfg, lgr, s.metrics)
	if err != nil {
		return nil, err
	}
	s.app = view.NewApp(s.svc, lgr)
	return s, nil
}

// close tears the app down and reports metrics
func (s *session) close() {
	s.app.Destroy()
	if s.metrics == nil {
		return
	}

	families, err := s.metrics.Registry.Gather()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			event := s.logger.Info().Str("metric", mf.GetName())
			for _, lp := range m.GetLabel() {
				event = event.Str(lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				event = event.Float64("value", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				event = event.Float64("value", m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				event = event.
					Uint64("count", m.GetHistogram().GetSampleCount()).
					Float64("sum", m.GetHistogram().GetSampleSum())
			}
			event.Msg("Client metric")
		}
	}
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

// loadList initialises the app and waits for the course list to settle
func (s *session) loadList(ctx context.Context) (*view.CourseList, error) {
	if err := s.app.Init(ctx); err != nil {
		return nil, err
	}

	list := s.app.Courses()
	select {
	case <-list.Settled():
		return list, nil
	case <-ctx.Done():
		s.app.Destroy()
		return nil, cli.Exit("cancelled", 130)
	}
}

func listCourses(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signalContext(c)
	defer stop()

	list, err := s.loadList(ctx)
	if err != nil {
		return err
	}

	if err := list.Render(c.App.Writer); err != nil {
		return err
	}
	if list.State().Err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func saveCourse(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signalContext(c)
	defer stop()

	list, err := s.loadList(ctx)
	if err != nil {
		return err
	}

	id := c.Int64("id")
	var course models.Course
	index := -1
	if card, ok := list.Card(id); ok {
		course, index = card.Course(), card.Index()
	} else {
		// A save replaces the whole record, so start from the stored one
		course, err = s.svc.GetCourse(id).Await(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.app.Destroy()
				return cli.Exit("cancelled", 130)
			}
			s.logger.Error().Err(err).Int64("courseId", id).Msg("Failed to read course, nothing saved")
			return cli.Exit(fmt.Sprintf("cannot read course %d", id), 1)
		}
	}

	var sub *async.Subscription
	card := view.NewCourseCard(course, index, func(edited models.Course) {
		sub = s.app.OnCourseChanged(edited)
	})
	edited := card.OnSaveClicked(c.String("description"))
	if sub == nil {
		return cli.Exit("app destroyed before save", 1)
	}

	select {
	case <-sub.Done():
	case <-ctx.Done():
		s.app.Destroy()
		return cli.Exit("cancelled", 130)
	}

	if sub.State() != async.Delivered {
		return cli.Exit(fmt.Sprintf("failed to save course %d", edited.ID), 1)
	}
	fmt.Fprintf(c.App.Writer, "Saved course %d: %s\n", edited.ID, edited.Description)
	return nil
}
