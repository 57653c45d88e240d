package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
)

var _ = Describe("process shutdown", func() {
	It("treats the gateway closing the stream as a successful TerminateServerProcess", func() {
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

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		endErrCh := make(chan error, 1)
		go func() { endErrCh <- client.ProcessEnding() }()

		frame, err := readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("TerminateServerProcess"))

		// No response frame: the gateway simply closes the socket.
		Expect(conn.Close()).To(Succeed())

		Eventually(endErrCh).Should(Receive(BeNil()))
	})

	It("delivers the TerminateProcess event's deadline before the socket closes", func() {
		gw := newFakeGateway()
		DeferCleanup(gw.close)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gw.url(),
			ProcessID:    "process-2",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		terminatedCh := make(chan struct{}, 1)
		readyErrCh := make(chan error, 1)
		go func() {
			readyErrCh <- client.ProcessReady(gamelift.ProcessParameters{
				Port:               7777,
				OnProcessTerminate: func() { terminatedCh <- struct{}{} },
			})
		}()
		frame, err := readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(respondOK(conn, frame.Action, frame.RequestID, struct{}{})).To(Succeed())
		Eventually(readyErrCh).Should(Receive(BeNil()))

		deadline := time.Now().Add(2 * time.Minute).UnixMilli()
		Expect(sendEvent(conn, "TerminateProcess", struct {
			TerminationTime int64
		}{TerminationTime: deadline})).To(Succeed())

		Eventually(terminatedCh).Should(Receive())
		got, err := client.GetTerminationTime()
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UnixMilli()).To(Equal(deadline))
	})
})
