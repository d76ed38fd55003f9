// Package bootstrap wires an rxkit runtime from configuration: the global
// logger, the trampoline queue capacity, OpenTelemetry providers, stream
// metrics, the SSE hub and an HTTP router.
//
//	var cfg config.Config
//	if err := config.Load("ticker", &cfg); err != nil { ... }
//
//	rt, err := bootstrap.Setup(ctx, &cfg)
//	if err != nil { ... }
//
//	router := rt.Router()
//	router.GET("/ticks", sse.Handler(func(c *gin.Context) (rx.Observable[[]Tick], error) {
//	    return bootstrap.Buffer(rt, bootstrap.Instrument(rt, ticks(), "ticks")), nil
//	}, rt.SSEOptions()...))
//
//	err = rt.RunTask(ctx, func(ctx context.Context) error {
//	    return rt.Serve(ctx, ":8080", router)
//	})
package bootstrap
