// Package sse bridges streams to HTTP clients as Server-Sent Events.
//
// Stream serves one subscription per request: every Next becomes a data
// frame holding the JSON value, an Error becomes an "error" frame holding
// the error response body, and Complete becomes a "complete" frame that
// ends the response. A client disconnect disposes the subscription.
//
//	router.GET("/ticks", sse.Handler(func(c *gin.Context) (rx.Observable[Tick], error) {
//	    return ticks(c.Query("symbol"))
//	}))
//
// A Hub fans published streams out to many long-lived clients whose IDs
// match a glob pattern.
//
//	hub := sse.NewHub()
//	go hub.Run()
//	router.GET("/topics/:topic", sse.HubHandler(hub, "topic"))
//	sub := sse.Publish(ctx, hub, "prices:*", prices)
package sse
