package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
)

var _ = Describe("process activation", func() {
	It("announces readiness and receives a success response", func() {
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
		go func() {
			readyErrCh <- client.ProcessReady(gamelift.ProcessParameters{
				Port:          7777,
				LogParameters: gamelift.LogParameters{LogPaths: []string{"/local/game/logs"}},
			})
		}()

		frame, err := readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("ActivateServerProcess"))

		Expect(respondOK(conn, frame.Action, frame.RequestID, struct{}{})).To(Succeed())
		Eventually(readyErrCh).Should(Receive(BeNil()))
	})

	It("fails validation before dialing when a required field is missing", func() {
		_, err := gamelift.InitSDK(gamelift.ServerParameters{
			ProcessID: "process-2",
		})
		Expect(err).To(HaveOccurred())
	})
})
