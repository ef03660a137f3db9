//go:build unix && !dragonfly && !freebsd && !linux && !netbsd && !openbsd

package socket

const platformStrategy = StrategyTwoStep

var atomicCreator creator
