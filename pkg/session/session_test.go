package session_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/cache/inmemory"
	"github.com/edudash/edudash/pkg/session"
	"github.com/edudash/edudash/pkg/store"
	"github.com/edudash/edudash/pkg/store/mocks"
	"github.com/edudash/edudash/pkg/types"
)

type failingProvider struct{}

func (failingProvider) Identify(context.Context) (session.Identity, error) {
	return session.Identity{}, errors.New("popup closed")
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("user-%d", n)
	}
}

var _ = Describe("Session", func() {
	var (
		ctx context.Context
		c   cache.Cache
		st  *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		c, err = cache.New(&cache.Config{
			Driver:   cache.DriverMemory,
			InMemory: &inmemory.Config{},
		})
		Expect(err).NotTo(HaveOccurred())
		st = store.New(c)
	})

	Context("with a fresh store", func() {
		var s *session.Session

		BeforeEach(func() {
			var err error
			s, err = session.New(ctx, st.User, session.WithIDGenerator(sequentialIDs()))
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts signed out", func() {
			Expect(s.IsAuthenticated()).To(BeFalse())
			Expect(s.User()).To(BeNil())
		})

		It("persists the user on login", func() {
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())

			Expect(s.IsAuthenticated()).To(BeTrue())
			Expect(s.User()).To(Equal(&types.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"}))

			current, err := st.User.Current(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(Equal(s.User()))

			registered, err := st.User.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registered).To(ConsistOf(*s.User()))
		})

		DescribeTable("stores email and name exactly as given",
			func(email, name string) {
				Expect(s.Login(ctx, email, name)).To(Succeed())
				Expect(s.IsAuthenticated()).To(BeTrue())

				current, err := st.User.Current(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(current.Email).To(Equal(email))
				Expect(current.Name).To(Equal(name))
				Expect(s.User()).To(Equal(current))
			},
			Entry("blank email", "", "A"),
			Entry("padded email and empty name", "  a@b.com ", ""),
			Entry("whitespace name", "bob.smith@example.com", "  "),
		)

		It("attaches the remembered profile image", func() {
			Expect(st.User.SetProfileImage(ctx, "data:image/png;base64,AAAA")).To(Succeed())
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
			Expect(s.User().ProfileImage).To(Equal("data:image/png;base64,AAAA"))
		})

		It("gives every login a new id", func() {
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
			first := s.User().ID
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
			Expect(s.User().ID).NotTo(Equal(first))

			registered, err := st.User.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registered).To(HaveLen(2))
		})

		It("clears the pointer on logout but keeps the registry", func() {
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
			Expect(s.Logout(ctx)).To(Succeed())

			Expect(s.IsAuthenticated()).To(BeFalse())
			Expect(s.User()).To(BeNil())

			current, err := st.User.Current(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(BeNil())

			registered, err := st.User.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(registered).To(HaveLen(1))
		})

		It("returns copies of the user", func() {
			Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
			u := s.User()
			u.Name = "changed"
			Expect(s.User().Name).To(Equal("Alice"))
		})

		Describe("Subscribe", func() {
			It("notifies listeners on login and logout until unsubscribed", func() {
				var seen []*types.User
				unsubscribe := s.Subscribe(func(u *types.User) { seen = append(seen, u) })

				Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
				Expect(s.Logout(ctx)).To(Succeed())

				Expect(seen).To(HaveLen(2))
				Expect(seen[0].Email).To(Equal("alice@example.com"))
				Expect(seen[1]).To(BeNil())

				unsubscribe()
				unsubscribe()
				Expect(s.Login(ctx, "bob@example.com", "Bob")).To(Succeed())
				Expect(seen).To(HaveLen(2))
			})

			It("lets listeners read the session", func() {
				var authenticated bool
				s.Subscribe(func(*types.User) { authenticated = s.IsAuthenticated() })

				Expect(s.Login(ctx, "alice@example.com", "Alice")).To(Succeed())
				Expect(authenticated).To(BeTrue())
			})
		})

		Describe("LoginWith", func() {
			It("signs in a guest identity", func() {
				provider := session.NewGuestProvider(rand.NewSource(7))
				Expect(s.LoginWith(ctx, provider)).To(Succeed())

				u := s.User()
				Expect(u.Email).To(MatchRegexp(`^user\d{1,3}@gmail\.com$`))
				Expect(u.Name).To(MatchRegexp(`^Google User \d{1,3}$`))
			})

			It("leaves the session alone when the provider fails", func() {
				err := s.LoginWith(ctx, failingProvider{})
				Expect(err).To(MatchError(ContainSubstring("popup closed")))
				Expect(s.IsAuthenticated()).To(BeFalse())
			})
		})
	})

	It("restores the signed in user", func() {
		first, err := session.New(ctx, st.User)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Login(ctx, "alice@example.com", "Alice")).To(Succeed())

		second, err := session.New(ctx, store.New(c).User)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.IsAuthenticated()).To(BeTrue())
		Expect(second.User()).To(Equal(first.User()))
	})

	It("fails to start on a corrupt session pointer", func() {
		Expect(c.Set(ctx, "edudash:currentUser", "{", cache.NoExpiration)).To(Succeed())
		_, err := session.New(ctx, st.User)
		Expect(err).To(MatchError(ContainSubstring("failed to restore session")))
	})

	Context("when the store fails", func() {
		var (
			ctrl  *gomock.Controller
			users *mocks.MockUserStoreInterface
			s     *session.Session
			alice = &types.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			users = mocks.NewMockUserStoreInterface(ctrl)
			users.EXPECT().Current(gomock.Any()).Return(alice, nil)

			var err error
			s, err = session.New(ctx, users)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		It("keeps the previous user when login cannot be persisted", func() {
			users.EXPECT().ProfileImage(gomock.Any()).Return("", nil)
			users.EXPECT().SetCurrent(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

			notified := false
			s.Subscribe(func(*types.User) { notified = true })

			err := s.Login(ctx, "bob@example.com", "Bob")
			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(s.User()).To(Equal(alice))
			Expect(notified).To(BeFalse())
		})

		It("stops before writing when the profile image cannot be read", func() {
			users.EXPECT().ProfileImage(gomock.Any()).Return("", errors.New("timeout"))

			err := s.Login(ctx, "bob@example.com", "Bob")
			Expect(err).To(MatchError(ContainSubstring("failed to read profile image")))
		})

		It("stays signed in when logout cannot be persisted", func() {
			users.EXPECT().SetCurrent(gomock.Any(), gomock.Nil()).Return(errors.New("disk full"))

			Expect(s.Logout(ctx)).To(MatchError(ContainSubstring("failed to persist logout")))
			Expect(s.IsAuthenticated()).To(BeTrue())
		})
	})
})

var _ = Describe("GuestProvider", func() {
	It("is reproducible with a fixed source", func() {
		a, err := session.NewGuestProvider(rand.NewSource(1)).Identify(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := session.NewGuestProvider(rand.NewSource(1)).Identify(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(regexp.MustCompile(`^user\d+@gmail\.com$`).MatchString(a.Email)).To(BeTrue())
	})

	It("honours cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := session.NewGuestProvider(nil).Identify(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
