package e2e

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/driver"
)

var _ = Describe("service call timeout", func() {
	It("fails with RequestTimeoutError when the gateway never responds", func() {
		original := driver.ServiceCallTimeout
		driver.ServiceCallTimeout = 100 * time.Millisecond
		DeferCleanup(func() { driver.ServiceCallTimeout = original })

		gw := newFakeGateway()
		DeferCleanup(gw.close)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gw.url(),
			ProcessID:    "process-1",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		readyErrCh := make(chan error, 1)
		go func() { readyErrCh <- client.ProcessReady(gamelift.ProcessParameters{Port: 7777}) }()

		// The gateway receives the request but never answers it.
		_, err = readFrame(conn)
		Expect(err).NotTo(HaveOccurred())

		var got error
		Eventually(readyErrCh).Should(Receive(&got))
		var timeoutErr *gamelift.RequestTimeoutError
		Expect(errors.As(got, &timeoutErr)).To(BeTrue())
	})
})
