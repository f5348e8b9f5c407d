package main

import (
	"github.com/rs/zerolog"

	"github.com/mehome/reactor"
)

// installEcho is the application-level connection handler — an
// external collaborator outside the reactor's core. It exists here
// only so the binary does something observable: every byte read from
// a connection is written back, and either half closing drives
// ScheduleClose.
func installEcho(log zerolog.Logger) reactor.EventHandler {
	return func(c reactor.Connection) {
		buf := make([]byte, 4096)

		c.SetReadHandler(func(c reactor.Connection) {
			for {
				n, eof, err := reactor.ReadNonblock(c.Fd(), buf)
				if err != nil {
					log.Debug().Int("fd", c.Fd()).Err(err).Msg("read error, scheduling close")
					c.ScheduleClose()
					return
				}
				if eof {
					log.Debug().Int("fd", c.Fd()).Msg("peer closed, scheduling close")
					c.ScheduleClose()
					return
				}
				if n == 0 {
					return
				}
				if _, werr := reactor.WriteNonblock(c.Fd(), buf[:n]); werr != nil {
					log.Debug().Int("fd", c.Fd()).Err(werr).Msg("write error, scheduling close")
					c.ScheduleClose()
					return
				}
			}
		})

		c.SetErrorHandler(func(c reactor.Connection) {
			log.Debug().Int("fd", c.Fd()).Msg("connection error event, scheduling close")
			c.ScheduleClose()
		})
	}
}
