package shopify

const productsQuery = `
query getProducts($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        handle
        description
        vendor
        productType
        tags
        status
        createdAt
        updatedAt
        images(first: 1) {
          edges { node { url altText } }
        }
        variants(first: 5) {
          edges { node { id title price inventoryQuantity sku } }
        }
      }
    }
  }
}`

const productQuery = `
query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    handle
    description
    vendor
    productType
    tags
    status
    createdAt
    updatedAt
    images(first: 10) {
      edges { node { url altText } }
    }
    variants(first: 10) {
      edges { node { id title price inventoryQuantity sku weight weightUnit } }
    }
  }
}`

const ordersQuery = `
query getOrders($first: Int!, $query: String) {
  orders(first: $first, query: $query) {
    edges {
      node {
        id
        name
        email
        phone
        createdAt
        updatedAt
        totalPrice
        subtotalPrice
        totalTax
        currencyCode
        financialStatus
        fulfillmentStatus
        tags
        note
        customer { id firstName lastName email }
        shippingAddress {
          firstName lastName address1 address2 city province country zip phone
        }
        lineItems(first: 10) {
          edges {
            node {
              id
              title
              quantity
              variant { id title price sku }
            }
          }
        }
      }
    }
  }
}`

const customersQuery = `
query getCustomers($first: Int!, $query: String) {
  customers(first: $first, query: $query) {
    edges {
      node {
        id
        firstName
        lastName
        email
        phone
        createdAt
        updatedAt
        tags
        note
        ordersCount
        totalSpent
        addresses(first: 5) {
          id firstName lastName address1 address2 city province country zip phone
        }
      }
    }
  }
}`

const productCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      title
      handle
      status
      vendor
      productType
      tags
      createdAt
    }
    userErrors { field message }
  }
}`

const shopQuery = `
query {
  shop {
    id
    name
    email
    domain
    myshopifyDomain
    currencyCode
    timezone
    plan { displayName }
  }
}`
