// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package gateway_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/neutron-contrail/gateway"
	"github.com/juju/neutron-contrail/gateway/mocks"
	"github.com/juju/neutron-contrail/unitstate"
)

const (
	oneGateway = `
- interface: eth1
  subnets: [10.0.0.0/24]
`
	twoGateways = `
- interface: eth1
  subnets: [10.0.0.0/24]
- interface: eth2
  subnets: [10.0.1.0/24]
`
)

type reconcilerSuite struct {
	testing.IsolationSuite

	actions *mocks.MockActions
}

var _ = gc.Suite(&reconcilerSuite{})

func (s *reconcilerSuite) setup(c *gc.C, declared, applied string) (*gomock.Controller, *unitstate.Store, *gateway.Reconciler) {
	ctrl := gomock.NewController(c)
	s.actions = mocks.NewMockActions(ctrl)
	state := unitstate.NewMemStore(
		map[string]interface{}{gateway.DeclaredKey: declared},
		map[string]interface{}{gateway.AppliedKey: applied},
	)
	return ctrl, state, gateway.NewReconciler(state, s.actions)
}

func (s *reconcilerSuite) TestAddOnlyBringsUpNewInterface(c *gc.C) {
	ctrl, state, r := s.setup(c, twoGateways, oneGateway)
	defer ctrl.Finish()

	gomock.InOrder(
		s.actions.EXPECT().WriteInterfaces(gomock.Len(2)).Return(true, nil),
		s.actions.EXPECT().InterfacesUp([]string{"eth2"}).Return(nil),
		s.actions.EXPECT().EnableForwarding().Return(nil),
	)

	result, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result, jc.DeepEquals, gateway.Result{Up: []string{"eth2"}, Written: true})
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, twoGateways)
}

func (s *reconcilerSuite) TestFullTeardown(c *gc.C) {
	ctrl, state, r := s.setup(c, "", oneGateway)
	defer ctrl.Finish()

	gomock.InOrder(
		s.actions.EXPECT().InterfacesDown([]string{"eth1"}).Return(nil),
		s.actions.EXPECT().WriteInterfaces(gomock.Len(0)).Return(true, nil),
		s.actions.EXPECT().DisableForwarding().Return(nil),
	)

	result, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result, jc.DeepEquals, gateway.Result{Down: []string{"eth1"}, Written: true})
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, "")
}

func (s *reconcilerSuite) TestChangedSubnetsCycleInterface(c *gc.C) {
	ctrl, _, r := s.setup(c, `
- interface: eth1
  subnets: [10.0.0.0/24, 10.0.9.0/24]
`, oneGateway)
	defer ctrl.Finish()

	gomock.InOrder(
		s.actions.EXPECT().InterfacesDown([]string{"eth1"}).Return(nil),
		s.actions.EXPECT().WriteInterfaces(gomock.Any()).Return(true, nil),
		s.actions.EXPECT().InterfacesUp([]string{"eth1"}).Return(nil),
		s.actions.EXPECT().EnableForwarding().Return(nil),
	)

	_, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
}

func (s *reconcilerSuite) TestStructurallyEqualDoesNothing(c *gc.C) {
	ctrl, state, r := s.setup(c, `[{interface: eth1, subnets: [10.0.0.0/24]}]`, oneGateway)
	defer ctrl.Finish()

	result, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result, jc.DeepEquals, gateway.Result{})
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, `[{interface: eth1, subnets: [10.0.0.0/24]}]`)
}

func (s *reconcilerSuite) TestRoutesOnlyChangeRecordsDeclaration(c *gc.C) {
	declared := `
- interface: eth1
  subnets: [10.0.0.0/24]
  routes: [0.0.0.0/0]
  project: demo
`
	ctrl, state, r := s.setup(c, declared, oneGateway)
	defer ctrl.Finish()

	result, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result, jc.DeepEquals, gateway.Result{})
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, declared)
}

func (s *reconcilerSuite) TestUnreadableAppliedTreatedAsEmpty(c *gc.C) {
	ctrl, state, r := s.setup(c, oneGateway, oneGateway+`- interface: eth1
  subnets: [10.0.5.0/24]
`)
	defer ctrl.Finish()

	gomock.InOrder(
		s.actions.EXPECT().WriteInterfaces(gomock.Len(1)).Return(false, nil),
		s.actions.EXPECT().InterfacesUp([]string{"eth1"}).Return(nil),
		s.actions.EXPECT().EnableForwarding().Return(nil),
	)

	result, err := r.Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result, jc.DeepEquals, gateway.Result{Up: []string{"eth1"}})
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, oneGateway)
}

func (s *reconcilerSuite) TestInvalidDeclarationChangesNothing(c *gc.C) {
	ctrl, state, r := s.setup(c, twoGateways+`- interface: eth1
  subnets: [10.0.5.0/24]
`, oneGateway)
	defer ctrl.Finish()

	_, err := r.Reconcile()
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, oneGateway)
}

func (s *reconcilerSuite) TestFailureKeepsApplied(c *gc.C) {
	ctrl, state, r := s.setup(c, twoGateways, oneGateway)
	defer ctrl.Finish()

	gomock.InOrder(
		s.actions.EXPECT().WriteInterfaces(gomock.Any()).Return(true, nil),
		s.actions.EXPECT().InterfacesUp([]string{"eth2"}).Return(errors.New("ifup failed")),
	)

	_, err := r.Reconcile()
	c.Assert(err, gc.ErrorMatches, "ifup failed")
	c.Assert(state.String(gateway.AppliedKey), gc.Equals, oneGateway)
}
